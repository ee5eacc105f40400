package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ArquintL/silicon/internal/driver"
	"github.com/ArquintL/silicon/internal/ui"
)

type verifyOutcome struct {
	result *driver.Result
	err    error
}

// runVerifyWithUI runs the driver in a goroutine while a Bubble Tea program
// renders its progress events. The driver's outcome always wins over UI
// errors unless the UI itself failed.
func runVerifyWithUI(ctx context.Context, title, dir string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan verifyOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.VerifyDir(ctx, dir, opts)
		outcomeCh <- verifyOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
