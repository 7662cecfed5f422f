package main

import (
	"os"

	"github.com/brightpath/ldscreen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
