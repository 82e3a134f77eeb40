package main

import (
	"os"

	"github.com/vsavchyn-dev/near-sandbox/cmd"
	"github.com/vsavchyn-dev/near-sandbox/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
