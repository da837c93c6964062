package main

import (
	"fmt"
	"os"

	"github.com/dgallion1/aozora/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "aozora:", err)
		os.Exit(1)
	}
}
