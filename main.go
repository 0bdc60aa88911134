package main

import (
	"os"

	"github.com/abhisek/mathpop/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
