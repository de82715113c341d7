package main

import (
	"os"

	"github.com/glossa-app/glossa/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
