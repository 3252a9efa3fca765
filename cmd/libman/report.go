package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/smarty/libman/contracts"
)

type palette struct {
	succeeded *color.Color
	cancelled *color.Color
	failed    *color.Color
	name      *color.Color
}

func newPalette(disabled bool) palette {
	this := palette{
		succeeded: color.New(color.FgGreen),
		cancelled: color.New(color.FgYellow),
		failed:    color.New(color.FgRed),
		name:      color.New(color.FgCyan),
	}
	if disabled {
		for _, each := range []*color.Color{this.succeeded, this.cancelled, this.failed, this.name} {
			each.DisableColor()
		}
	}
	return this
}

// report prints one line per library, plus one line per error, and returns
// the number of libraries that did not succeed.
func (this palette) report(out io.Writer, verb string, results []*contracts.InstallationResult) (failures int) {
	for _, result := range results {
		switch {
		case result.Success():
			_, _ = fmt.Fprintf(out, "%s %s %s\n", this.succeeded.Sprint("[OK]"), verb, result.State.Title())
		case result.Cancelled:
			failures++
			_, _ = fmt.Fprintf(out, "%s %s %s\n", this.cancelled.Sprint("[CANCELLED]"), verb, result.State.Title())
		default:
			failures++
			_, _ = fmt.Fprintf(out, "%s %s %s\n", this.failed.Sprint("[FAILED]"), verb, result.State.Title())
		}
		for _, err := range result.Errors {
			_, _ = fmt.Fprintf(out, "    %s\n", this.failed.Sprint(err.Error()))
		}
	}
	return failures
}

func (this palette) outcome(out io.Writer, verb string, results []*contracts.InstallationResult) error {
	if failures := this.report(out, verb, results); failures > 0 {
		return FailureError{Failures: failures, Total: len(results)}
	}
	return nil
}

type FailureError struct {
	Failures int
	Total    int
}

func (this FailureError) Error() string {
	return fmt.Sprintf("%d of %d libraries failed", this.Failures, this.Total)
}
