package main

import (
	"fmt"
	"os"

	_ "github.com/mind-engage/certprep/internal/formats/comptia"
	_ "github.com/mind-engage/certprep/internal/formats/lpi"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
