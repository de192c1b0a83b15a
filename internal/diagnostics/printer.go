package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/BBpezsgo/Interpreter-sub004/internal/config"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// useColor follows the NO_COLOR convention and only colors terminals.
func useColor(w io.Writer) bool {
	if config.IsTestMode {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

func severityColor(s Severity) string {
	switch s {
	case SeverityCritical, SeverityError:
		return colorRed
	case SeverityWarning:
		return colorYellow
	case SeverityHint:
		return colorCyan
	default:
		return colorGray
	}
}

// Fprint writes diagnostics one per line, with nested causes indented.
func Fprint(w io.Writer, errs []*DiagnosticError) error {
	color := useColor(w)
	for _, err := range errs {
		if e := fprintOne(w, err, 0, color); e != nil {
			return e
		}
	}
	return nil
}

func fprintOne(w io.Writer, err *DiagnosticError, depth int, color bool) error {
	indent := strings.Repeat("  ", depth)
	label := err.Severity.String()
	if color {
		label = severityColor(err.Severity) + label + colorReset
	}
	var e error
	if depth == 0 {
		file := err.File
		if file == "" {
			file = "<unknown>"
		}
		_, e = fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", file, err.Token.Line, err.Token.Column, label, err.Code, err.Message)
	} else {
		_, e = fmt.Fprintf(w, "%s%s\n", indent, err.Message)
	}
	if e != nil {
		return e
	}
	for _, c := range err.Causes {
		if e := fprintOne(w, c, depth+1, color); e != nil {
			return e
		}
	}
	return nil
}
