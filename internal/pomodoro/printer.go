package pomodoro

import (
	"io"
	"os"
	"time"

	"github.com/pterm/pterm"
)

// Printer writes the user-facing countdown.
type Printer interface {
	WorkStarted(d time.Duration)
	Remaining(minutes int)
	WorkFinished()
}

// ConsolePrinter writes the countdown through pterm, to stdout unless Out
// is set.
type ConsolePrinter struct {
	Out io.Writer
}

func (p ConsolePrinter) writer() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

// WorkStarted prints the work length.
func (p ConsolePrinter) WorkStarted(d time.Duration) {
	pterm.Info.WithWriter(p.writer()).Printfln("Starting Pomodoro %s", d)
}

// Remaining prints the whole minutes left.
func (p ConsolePrinter) Remaining(minutes int) {
	pterm.Fprintln(p.writer(), minutes)
}

// WorkFinished announces the end of the work interval.
func (p ConsolePrinter) WorkFinished() {
	pterm.Success.WithWriter(p.writer()).Println("Finished Pomodoro")
}
