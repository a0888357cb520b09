package main

import (
	"fmt"
	"os"

	"github.com/temirov/hubkeeper/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the hubkeeper command-line application.
func main() {
	executionError := cli.Execute()
	if executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	os.Exit(cli.ExitCode(executionError))
}
