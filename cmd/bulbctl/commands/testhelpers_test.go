package commands

import (
	"bytes"
	"io"
	"os"
	"regexp"

	"github.com/pterm/pterm"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// captureStdout runs f with stdout and the pterm table writer redirected to a
// pipe, and returns what was written with colour codes removed.
func captureStdout(f func()) string {
	r, w, err := os.Pipe()
	if err != nil {
		panic(err)
	}

	stdout, tableWriter := os.Stdout, pterm.DefaultTable.Writer
	printColor, output := pterm.PrintColor, pterm.Output
	os.Stdout, pterm.DefaultTable.Writer = w, w
	pterm.PrintColor, pterm.Output = false, true
	defer func() {
		os.Stdout, pterm.DefaultTable.Writer = stdout, tableWriter
		pterm.PrintColor, pterm.Output = printColor, output
	}()

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	f()
	w.Close()
	return ansiEscape.ReplaceAllString(<-done, "")
}
