package main

import (
	"os"
	_ "time/tzdata"

	"github.com/senyabanana/freelance-market/cmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
