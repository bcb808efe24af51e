package main

import (
	"os"

	"github.com/jarrod-feld/Youtuber-Scaper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
