package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rshade/cardcollector/internal/session"
)

// RunCollection starts the interactive collection browser and blocks until
// the user quits or ctx is cancelled.
func RunCollection(ctx context.Context, svc Service, opts ...Option) error {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	var program *tea.Program
	runnerOpts := []session.RunnerOption{session.WithRunnerLogger(o.logger)}
	if o.debounce > 0 {
		runnerOpts = append(runnerOpts, session.WithDebounce(o.debounce))
	}
	runner := session.NewRunner(svc, svc, func(r session.Result) {
		program.Send(ResultMsg(r))
	}, runnerOpts...)
	defer func() {
		runner.Close()
		runner.Wait()
	}()

	m := NewCollectionModel(ctx, svc, runner, opts...)
	program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running collection browser: %w", err)
	}
	return nil
}
