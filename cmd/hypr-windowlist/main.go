package main

import (
	"embed"
	"fmt"
	"os"

	"hypr-windowlist/internal/cli"
)

//go:embed assets/*
var embeddedAssets embed.FS

func main() {
	if err := cli.Execute(embeddedAssets); err != nil {
		fmt.Fprintf(os.Stderr, "hypr-windowlist: %v\n", err)
		os.Exit(1)
	}
}
