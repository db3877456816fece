package main

import (
	"os"

	"github.com/bryan-buckman/newsdesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
