package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"dirsort/internal/report"
	"dirsort/internal/workflow"
)

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
)

func renderSummary(out io.Writer, summary *workflow.Summary, asTable, colorize bool) {
	result := summary.Result
	if result == nil || result.Empty() {
		fmt.Fprintln(out, report.NoChangesMessage)
		return
	}
	if asTable {
		rows := make([][]string, 0, len(report.Keys))
		for _, key := range report.Keys {
			if exts := result.Extensions(key); len(exts) > 0 {
				rows = append(rows, []string{string(key), strings.Join(exts, ", ")})
			}
		}
		fmt.Fprintln(out, renderTable([]string{"Key", "Extensions"}, rows, nil))
		return
	}
	text := result.Render()
	if colorize {
		text = colorizeKeys(text)
	}
	fmt.Fprint(out, text)
}

// colorizeKeys highlights the key lines of a rendered summary.
func colorizeKeys(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, string(report.KnownExtensions)+":"):
			lines[i] = ansiGreen + line + ansiReset
		case strings.HasPrefix(line, string(report.UnknownExtensions)+":"):
			lines[i] = ansiYellow + line + ansiReset
		}
	}
	return strings.Join(lines, "\n")
}

func formatElapsed(d time.Duration) string {
	if d < time.Millisecond {
		return d.Round(time.Microsecond).String()
	}
	return d.Round(time.Millisecond).String()
}

func isTerminal(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isTerminal(file)
}
