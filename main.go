package main

import (
	"fmt"
	"os"

	"github.com/soocke/arcap-go/cli"
)

func main() {
	deps := &cli.Dependencies{NewLogger: NewLogger}
	if err := cli.NewRootCmd(deps).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "arcap:", err)
		os.Exit(1)
	}
}
