package main

import (
	"fmt"
	"os"

	"cobscan/internal/artifact"
	"cobscan/internal/errors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		exit := errors.ExitCodeOf(err)
		if exit == errors.ExitUsage {
			// Usage mistakes go to stderr; stdout stays clean so a
			// caller piping the artifact never parses a usage message.
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(exit)
		}
		if out, encErr := artifact.Encode(artifact.NewError(err.Error())); encErr == nil {
			fmt.Println(string(out))
		}
		os.Exit(exit)
	}
}
