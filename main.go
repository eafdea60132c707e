package main

import (
	"os"

	"github.com/opendepot/induction/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
