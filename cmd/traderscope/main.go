package main

import (
	"os"

	"traderscope/cmd/traderscope/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
