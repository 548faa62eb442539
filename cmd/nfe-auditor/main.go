package main

import (
	"os"

	"github.com/fiscalia/nfe-auditor/cmd/nfe-auditor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
