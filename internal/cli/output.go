package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Model or scenario failure (unsmoothed table, space limit, failed scenarios)
	ExitCommandError = 2 // Command error (missing inputs, unreadable files, database errors)
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int    // ExitFailure or ExitCommandError
	Message string
	Err     error // optional cause
	Shown   bool  // already reported to the user by the command
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error: ExitSuccess for nil,
// the carried code for an ExitError anywhere in the chain, ExitFailure
// otherwise.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the envelope of every JSON response.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error part of a JSON response.
type CLIError struct {
	Code    string `json:"code"` // "E001", "E101", ...
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// textRenderer is implemented by results that lay out their own text form.
type textRenderer interface {
	renderText(w io.Writer) error
}

// OutputFormatter writes command results as text or as a JSON envelope.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // text-mode errors and diagnostics; Writer when nil
	Verbose   bool
}

func (f *OutputFormatter) isJSON() bool { return f.Format == "json" }

// Success writes data. JSON wraps it in an "ok" envelope. Text uses the
// data's own renderer if it has one, otherwise fmt; nil prints nothing.
func (f *OutputFormatter) Success(data any) error {
	if f.isJSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	switch d := data.(type) {
	case nil:
		return nil
	case textRenderer:
		return d.renderText(f.Writer)
	default:
		_, err := fmt.Fprintln(f.Writer, d)
		return err
	}
}

// Error reports a failure. JSON errors go to Writer so whoever parses
// stdout always gets an envelope; text errors go to the error writer so
// they never interleave with table output.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.isJSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	w := f.GetErrWriter()
	if _, err := fmt.Fprintf(w, "Error [%s]: %s\n", code, message); err != nil {
		return err
	}
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err under its error code and returns the ExitError the
// command should return. fallback is the code used when err carries none.
func (f *OutputFormatter) Fail(fallback, message string, err error) error {
	code := errorCode(err, fallback)
	if outErr := f.Error(code, fmt.Sprintf("%s: %v", message, err), errorDetails(err)); outErr != nil {
		return outErr
	}
	exitErr := WrapExitError(exitCodeFor(code), message, err)
	exitErr.Shown = true
	return exitErr
}

// VerboseLog writes a diagnostic line when --verbose is set.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter, falling back to Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
