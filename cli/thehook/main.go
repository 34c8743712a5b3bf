package main

import (
	"os"

	thehookcmder "github.com/LouisB739/thehook/cmd/thehook"
)

func main() {
	cmd := thehookcmder.NewTheHookCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
