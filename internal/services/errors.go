package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrFileOperation = errors.New("file operation error")
	ErrArchiveFormat = errors.New("archive format error")
	ErrJournal       = errors.New("journal error")
	ErrTransient     = errors.New("transient failure")
)

// Outcome classifies how a failed unit of work should be reported.
type Outcome string

const (
	OutcomeFailed      Outcome = "failed"
	OutcomeSkipped     Outcome = "skipped"
	OutcomeMisconfig   Outcome = "misconfigured"
	OutcomeUnsupported Outcome = "unsupported"
)

// Wrap builds an error message that includes pass context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, pass, operation, message string, err error) error {
	detail := buildDetail(pass, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureOutcome maps a pass error to the outcome recorded in the journal.
func FailureOutcome(err error) Outcome {
	switch {
	case errors.Is(err, ErrConfiguration):
		return OutcomeMisconfig
	case errors.Is(err, ErrArchiveFormat):
		return OutcomeUnsupported
	case errors.Is(err, ErrJournal):
		return OutcomeSkipped
	default:
		return OutcomeFailed
	}
}

func buildDetail(pass, operation, message string) string {
	parts := make([]string, 0, 3)
	if pass = strings.TrimSpace(pass); pass != "" {
		parts = append(parts, pass)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "sorter failure"
	}
	return strings.Join(parts, ": ")
}
