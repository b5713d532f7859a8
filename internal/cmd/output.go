package cmd

import (
	"io"
	"os"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Iron-Ham/bunkplan/internal/util"
)

// outputWidth reports the width to render for w and whether w is a terminal.
func outputWidth(w io.Writer) (int, bool) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return util.DefaultWidth, false
	}
	return util.TerminalWidth(f), true
}

func configFileUsed() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return "(none - using defaults)"
}
