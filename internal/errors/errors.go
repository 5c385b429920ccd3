package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/daypoints/internal/logger"
)

// Exit codes by error kind. Untyped errors exit 1.
const (
	ExitFailure    = 1
	ExitValidation = 2
	ExitNotFound   = 3
	ExitStorage    = 4
)

// Format renders err for the terminal. Typed errors carry their kind in
// brackets so scripts can tell bad input from a broken database.
func Format(err error) string {
	if err == nil {
		return ""
	}
	if k := KindOf(err); k != 0 {
		return fmt.Sprintf("Error [%s]: %v", k, err)
	}
	return fmt.Sprintf("Error: %v", err)
}

// ExitCode maps err to the process exit status. A nil error is 0.
func ExitCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return ExitValidation
	case KindNotFound:
		return ExitNotFound
	case KindStorage:
		return ExitStorage
	}
	if err == nil {
		return 0
	}
	return ExitFailure
}

// Fatal logs err with its kind and operation, prints it and exits with
// ExitCode(err). A nil error is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	keyvals := []interface{}{"error", err}
	var e *Error
	if stderrors.As(err, &e) {
		keyvals = append(keyvals, "kind", e.Kind.String(), "op", e.Op)
	}
	logger.Error("Command execution failed", keyvals...)
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(ExitCode(err))
}
