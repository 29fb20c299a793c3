package main

import (
	"os"

	"github.com/typemux/typemux/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
