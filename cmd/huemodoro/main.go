// Command huemodoro runs a Pomodoro timer that turns Hue lights warm white
// while working and warm orange when a break is due.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmylchreest/huemodoro/cmd/huemodoro/commands"
	apperrors "github.com/jmylchreest/huemodoro/internal/errors"
	"github.com/jmylchreest/huemodoro/internal/http/handlers"
	"github.com/jmylchreest/huemodoro/internal/utils"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := commands.NewRootCommand(handlers.VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
	}, commands.Options{})

	err := root.ExecuteContext(ctx)
	if err != nil {
		utils.SetupErrorLogger().Error("huemodoro failed", "error", err)
	}
	return apperrors.ExitCode(err)
}
