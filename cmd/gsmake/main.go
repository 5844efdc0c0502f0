package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/gsmake/pkg/style"
	"github.com/arthur-debert/gsmake/pkg/ui"
)

func main() {
	rootCmd := newRootCmd(newApp())
	if err := rootCmd.Execute(); err != nil {
		color := ui.DetectFormat(os.Stderr) == ui.FormatTerminal
		fmt.Fprint(os.Stderr, style.RenderError(err, color))
		os.Exit(1)
	}
}
