package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

var Version string = "development"

func main() {
	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("leaguectl"),
		kong.Description("Run the African Nations League tournament from the command line."),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	)

	if err := ctx.Run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
