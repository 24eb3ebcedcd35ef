// Package output formats import progress for the terminal
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// ColorMode represents color output mode
type ColorMode int

const (
	// ColorAuto enables colors unless the environment disables them
	ColorAuto ColorMode = iota
	// ColorAlways forces colors on
	ColorAlways
	// ColorNever forces colors off
	ColorNever
)

// ParseColorMode parses auto, always or never
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always, or never", s)
	}
}

// ResolveColors determines whether to use colors
func ResolveColors(mode ColorMode, configColors bool) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		if os.Getenv("TERM") == "dumb" {
			return false
		}
		return configColors
	}
}

// Printer writes progress and results
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
	quiet     bool
}

// NewPrinter creates a printer on stdout and stderr
func NewPrinter(useColors, quiet bool) *Printer {
	return NewPrinterWithWriters(os.Stdout, os.Stderr, useColors, quiet)
}

// NewPrinterWithWriters creates a printer on custom writers
func NewPrinterWithWriters(out, err io.Writer, useColors, quiet bool) *Printer {
	return &Printer{
		out:       out,
		err:       err,
		useColors: useColors,
		quiet:     quiet,
	}
}

// Out returns the standard output writer
func (p *Printer) Out() io.Writer {
	return p.out
}

// Progress prints the row about to be processed
func (p *Printer) Progress(current, total int, label string) {
	if p.quiet {
		return
	}
	if label == "" {
		label = "(untitled)"
	}
	prefix := fmt.Sprintf("[%d/%d]", current, total)
	if p.useColors {
		prefix = color.New(color.FgHiBlack).Sprint(prefix)
	}
	fmt.Fprintf(p.out, "%s %s\n", prefix, label)
}

// Info prints an informational message
func (p *Printer) Info(format string, args ...any) {
	if p.quiet {
		return
	}
	p.print(p.out, color.FgCyan, "", format, args...)
}

// Success prints a success message
func (p *Printer) Success(format string, args ...any) {
	if p.quiet {
		return
	}
	if p.useColors {
		p.print(p.out, color.FgGreen, "✓ ", format, args...)
		return
	}
	p.print(p.out, color.FgGreen, "[OK] ", format, args...)
}

// Warning prints a warning message
func (p *Printer) Warning(format string, args ...any) {
	if p.quiet {
		return
	}
	if p.useColors {
		p.print(p.err, color.FgYellow, "⚠ ", format, args...)
		return
	}
	p.print(p.err, color.FgYellow, "[WARN] ", format, args...)
}

// Error prints an error message, even in quiet mode
func (p *Printer) Error(format string, args ...any) {
	if p.useColors {
		p.print(p.err, color.FgRed, "✗ ", format, args...)
		return
	}
	p.print(p.err, color.FgRed, "[ERROR] ", format, args...)
}

// Header prints a section header
func (p *Printer) Header(title string) {
	if p.quiet {
		return
	}
	if p.useColors {
		color.New(color.Bold).Fprintf(p.out, "\n%s\n", title)
		return
	}
	fmt.Fprintf(p.out, "\n%s\n", title)
}

func (p *Printer) print(w io.Writer, attr color.Attribute, prefix, format string, args ...any) {
	msg := prefix + fmt.Sprintf(format, args...) + "\n"
	if p.useColors {
		color.New(attr).Fprint(w, msg)
		return
	}
	fmt.Fprint(w, msg)
}
