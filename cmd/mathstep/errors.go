package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/mathstep/internal/config"
	steperr "github.com/aledsdavies/mathstep/pkgs/errors"
	"github.com/aledsdavies/mathstep/runtime/parser"
)

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Type    string // "usage", "config"
	Message string
	Details string // Additional context
	Hint    string // How to fix it
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	var (
		cliErr  *CLIError
		parseEr *parser.ParseError
		stepErr *steperr.StepError
		cfgErr  *config.ConfigError
	)
	switch {
	case errors.As(err, &cliErr):
		formatCLIError(w, cliErr, useColor)
	case errors.As(err, &parseEr):
		// The message already carries the caret snippet.
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), parseEr.Error())
	case errors.As(err, &stepErr):
		formatStepError(w, stepErr, useColor)
	case errors.As(err, &cfgErr):
		formatCLIError(w, &CLIError{
			Type:    "config",
			Message: cfgErr.Error(),
			Hint:    "Check the config file or the MATHSTEP_* environment variables",
		}, useColor)
	default:
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
	}
}

// formatStepError prints the code, the message and a suggestion when the
// error carries one.
func formatStepError(w io.Writer, err *steperr.StepError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)
	_, _ = fmt.Fprintf(w, "%s\n", Colorize("  code: "+string(err.Code), ColorGray, useColor))

	if s, ok := err.GetContext("suggestion"); ok && s != "" {
		_, _ = fmt.Fprintf(w, "%s\n", Colorize(fmt.Sprintf("  Did you mean %q?", s), ColorYellow, useColor))
	}
	if err.Cause != nil {
		_, _ = fmt.Fprintf(w, "%s\n", Colorize("  cause: "+err.Cause.Error(), ColorGray, useColor))
	}
}

// formatCLIError formats CLI errors
func formatCLIError(w io.Writer, err *CLIError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)

	if err.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", err.Details)
	}

	if err.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), err.Hint)
	}
}
