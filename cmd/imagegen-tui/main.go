package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/jimeng-imagegen/internal/config"
	"github.com/handiism/jimeng-imagegen/internal/tui"
)

func main() {
	configFlag := flag.String("config", config.DefaultPath(), "Path to settings file (.json, .yaml or .yml)")
	flag.Parse()

	if err := tui.Run(*configFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
