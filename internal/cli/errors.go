package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/g4spectra/internal/config"
	"github.com/roach88/g4spectra/internal/convert"
	"github.com/roach88/g4spectra/internal/model"
	"github.com/roach88/g4spectra/internal/plot"
	"github.com/roach88/g4spectra/internal/spectrum"
	"github.com/roach88/g4spectra/internal/table"
)

// Error codes reported in CLIError.Code.
const (
	ErrCodeGeneric           = "E001" // Generic/unknown error
	ErrCodeNotFound          = "E005" // Path not found
	ErrCodeWriteFailed       = "E007" // File write error
	ErrCodeReadFailed        = "E008" // Table could not be read or parsed
	ErrCodeUnsupportedFormat = "E009" // Unknown table or image format
	ErrCodeMissingColumn     = "E010" // Required column absent or not numeric
	ErrCodeInvalidParameter  = "E020" // Bad flag or argument value
	ErrCodeLabelMismatch     = "E021" // Label count differs from spectrum count
	ErrCodeInterpolation     = "E022" // Data outside the interpolation domain
	ErrCodeConfigInvalid     = "E030" // Config file failed validation
)

// errorCode maps well-known errors to their code, or returns fallback.
func errorCode(err error, fallback string) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound
	case errors.Is(err, table.ErrUnsupportedFormat), errors.Is(err, plot.ErrUnsupportedOutput):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, table.ErrMissingColumn), errors.Is(err, table.ErrNotNumeric):
		return ErrCodeMissingColumn
	case errors.Is(err, spectrum.ErrOutOfRange),
		errors.Is(err, spectrum.ErrNonPositive),
		errors.Is(err, spectrum.ErrNotIncreasing),
		errors.Is(err, spectrum.ErrTooFewPoints):
		return ErrCodeInterpolation
	case errors.Is(err, config.ErrInvalid),
		errors.Is(err, spectrum.ErrInvalidGrid),
		errors.Is(err, spectrum.ErrUnknownKind),
		errors.Is(err, model.ErrUnknownParticle),
		errors.Is(err, convert.ErrZeroSum):
		return ErrCodeInvalidParameter
	}
	return fallback
}

// fail renders err through the formatter and returns it as an ExitError.
// Schema violations are attached as details.
func fail(f *OutputFormatter, exit int, code, message string, err error) error {
	var details interface{}
	var verrs config.ValidationErrors
	if errors.As(err, &verrs) {
		details = verrs
	}
	text := message
	if err != nil {
		text = fmt.Sprintf("%s: %v", message, err)
	}
	_ = f.Error(code, text, details)
	return WrapExitError(exit, message, err)
}

// readFailure reports a table that could not be read.
func readFailure(f *OutputFormatter, path string, err error) error {
	return fail(f, ExitCommandError, errorCode(err, ErrCodeReadFailed), fmt.Sprintf("reading %s", path), err)
}

// writeFailure reports an output that could not be written.
func writeFailure(f *OutputFormatter, path string, err error) error {
	return fail(f, ExitCommandError, errorCode(err, ErrCodeWriteFailed), fmt.Sprintf("writing %s", path), err)
}

// paramFailure reports an invalid flag or argument.
func paramFailure(f *OutputFormatter, message string, err error) error {
	return fail(f, ExitCommandError, ErrCodeInvalidParameter, message, err)
}

// computeFailure reports a failure while processing input. A table lacking
// a required numeric column is still a command error.
func computeFailure(f *OutputFormatter, message string, err error) error {
	code := errorCode(err, ErrCodeGeneric)
	if code == ErrCodeMissingColumn {
		return fail(f, ExitCommandError, code, message, err)
	}
	return fail(f, ExitFailure, code, message, err)
}

// checkArgs wraps a positional argument validator so that violations are
// rendered and exit with ExitCommandError.
func checkArgs(opts *RootOptions, validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fail(newFormatter(opts, cmd), ExitCommandError, ErrCodeInvalidParameter,
				fmt.Sprintf("usage: %s", cmd.UseLine()), err)
		}
		return nil
	}
}
