// Command fpsync runs the flight plan sync controller.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/fpsync/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
