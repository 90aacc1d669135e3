package main

import (
	"errors"
	"os"

	"github.com/aki/hookrunner/internal/cli/commands"
	"github.com/aki/hookrunner/internal/cli/ui"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	// A denial is an answer, not a failure. The command already
	// reported the decision and the error carries the exit code.
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		os.Exit(coded.ExitCode())
	}

	ui.Error("%v", err)
	os.Exit(2)
}
