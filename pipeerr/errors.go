// Package pipeerr defines the error kinds surfaced by a pipeline run.
package pipeerr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindImport Kind = iota + 1
	KindConfig
	KindExport
)

func (k Kind) String() string {
	switch k {
	case KindImport:
		return "import"
	case KindConfig:
		return "config"
	case KindExport:
		return "export"
	}
	return "unknown"
}

// Error carries a kind, a human readable message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	if e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Import(format string, args ...interface{}) error {
	return &Error{Kind: KindImport, Msg: fmt.Sprintf(format, args...)}
}

func Config(format string, args ...interface{}) error {
	return &Error{Kind: KindConfig, Msg: fmt.Sprintf(format, args...)}
}

func Export(format string, args ...interface{}) error {
	return &Error{Kind: KindExport, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to err. An err that already carries a kind is
// returned unchanged.
func Wrap(kind Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) && pe.Kind != 0 {
		return err
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

func IsImport(err error) bool { return KindOf(err) == KindImport }
func IsConfig(err error) bool { return KindOf(err) == KindConfig }
func IsExport(err error) bool { return KindOf(err) == KindExport }
