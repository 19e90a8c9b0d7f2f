package main

import (
	"fmt"
	"os"

	"github.com/megvii-research/go-megfile/cmd/megfile"
	"github.com/megvii-research/go-megfile/pkg/ui"
)

func main() {
	rootCmd := megfile.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if renderer, rerr := ui.NewRenderer(ui.FormatAuto, os.Stderr); rerr == nil {
			_ = renderer.RenderError(err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
