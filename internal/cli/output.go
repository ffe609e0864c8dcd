package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/rshade/cardcollector/internal/config"
)

// OutputFormat selects how non-interactive commands print results.
type OutputFormat string

// Output formats.
const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

const tabPadding = 2

func parseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputTable, OutputJSON, OutputYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: got %q", config.ErrInvalidFormat, s)
	}
}

// outputFormat returns the effective format: --output, then the config default.
func outputFormat() OutputFormat {
	f, err := parseFormat(config.GetDefaultOutputFormat())
	if err != nil {
		return OutputTable
	}
	return f
}

// writeStructured renders v as JSON or YAML.
func writeStructured(w io.Writer, format OutputFormat, v any) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q is not a structured format", config.ErrInvalidFormat, format)
	}
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
}

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// formatPrice renders a price in its currency, or "-" when unknown.
func formatPrice(price decimal.NullDecimal, currency string) string {
	if !price.Valid {
		return "-"
	}
	return formatMoney(price.Decimal, currency)
}

func formatMoney(d decimal.Decimal, currency string) string {
	if currency == "" || currency == "USD" {
		return "$" + d.StringFixed(2)
	}
	return d.StringFixed(2) + " " + currency
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
