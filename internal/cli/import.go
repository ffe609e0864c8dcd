package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/cardcollector/internal/collector"
	"github.com/rshade/cardcollector/internal/csvimport"
)

// importOutput is the structured result of an import.
type importOutput struct {
	Report      csvimport.Report `json:"report"                 yaml:"report"`
	Uploaded    bool             `json:"uploaded"               yaml:"uploaded"`
	NewPrinting []int            `json:"new_printings,omitempty" yaml:"new_printings,omitempty"`
}

// NewImportCmd creates the import command, which checks a collection CSV
// locally and uploads it.
func NewImportCmd() *cobra.Command {
	var checkOnly bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Upload a collection CSV",
		Long: `Upload a collection CSV with the columns MultiverseID, Quantity and
Foil quantity. The file is checked first and nothing is uploaded when a row
is invalid.`,
		Example: `  # Check and upload
  collector import collection.csv

  # Only check the file
  collector import collection.csv --check`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], checkOnly, csvimport.ValidateCollection,
				func(client *collector.Client, name string, r io.Reader) ([]int, error) {
					return client.UploadCSV(cmd.Context(), name, r)
				})
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "check the file without uploading it")

	return cmd
}

type (
	validateFunc func(io.Reader) (csvimport.Report, error)
	uploadFunc   func(client *collector.Client, name string, r io.Reader) ([]int, error)
)

// runImport validates path, prints the report and uploads the file when it is clean.
func runImport(cmd *cobra.Command, path string, checkOnly bool, validate validateFunc, upload uploadFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", collector.ErrValidation, path, err)
	}
	defer f.Close()

	report, err := validate(f)
	if err != nil {
		return err
	}
	out := importOutput{Report: report}
	format := outputFormat()
	if format == OutputTable {
		printReport(cmd, report)
	}
	if !report.OK() {
		if format != OutputTable {
			if werr := writeStructured(cmd.OutOrStdout(), format, out); werr != nil {
				return werr
			}
		}
		return report.Err()
	}

	if !checkOnly {
		if _, err = f.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewinding %s: %w", path, err)
		}
		client, clientErr := newClient()
		if clientErr != nil {
			return clientErr
		}
		out.NewPrinting, err = upload(client, filepath.Base(path), f)
		if err != nil {
			return err
		}
		out.Uploaded = true
		logger.Info().Ctx(cmd.Context()).Str("operation", "import").Str("file", path).
			Int("rows", report.Rows).Msg("file uploaded")
	}

	if format != OutputTable {
		return writeStructured(cmd.OutOrStdout(), format, out)
	}
	if out.Uploaded {
		cmd.Println("Successfully Uploaded")
		if report.Kind == csvimport.KindCollection {
			cmd.Printf("%s new printings added to the catalogue\n", formatCount(len(out.NewPrinting)))
		}
	}
	return nil
}

func printReport(cmd *cobra.Command, r csvimport.Report) {
	cmd.Printf("Rows: %s\n", formatCount(r.Rows))
	switch r.Kind {
	case csvimport.KindCollection:
		cmd.Printf("Copies: %s (foil %s)\n", formatCount(r.Quantity), formatCount(r.FoilQuantity))
		cmd.Printf("Distinct printings: %s in %d lookup batches\n",
			formatCount(countIDs(r.Lots())), len(r.Lots()))
	case csvimport.KindDeck:
		for _, section := range []string{"main", "sideboard"} {
			if n, ok := r.Sections[section]; ok {
				cmd.Printf("%s: %d\n", section, n)
			}
		}
	}
	for _, issue := range r.Issues {
		cmd.PrintErrln("  " + issue.String())
	}
}

func countIDs(lots [][]int) int {
	n := 0
	for _, lot := range lots {
		n += len(lot)
	}
	return n
}
