package main

import (
	"os"

	"github.com/deimos993/qprep/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
