package main

import (
	"os"

	"github.com/soundprediction/classifico/cmd/classifico"
)

func main() {
	if err := classifico.Execute(); err != nil {
		os.Exit(1)
	}
}
