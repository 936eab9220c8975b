package main

import (
	"fmt"
	"os"

	"github.com/reoring/viewspec/internal/cli"
	"github.com/reoring/viewspec/internal/demo"
)

func main() {
	if err := cli.NewRootCmd("viewspec-demo", demo.New).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCodeOf(err))
	}
}
