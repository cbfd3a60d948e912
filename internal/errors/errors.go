// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package errors provides the checker's structured error type: every
// failure path tags itself with a Kind so callers can decide whether to
// abort the run, skip a net, or just log a warning and continue.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation failed. The checker's control flow
// branches on Kind, not on error text: a KindInputError from CheckNet and
// KindRuleGap skip the current net or layer and keep going, KindPreconditionError
// aborts the whole run, and KindRepairSaturation/KindDataWarning are
// logged without changing control flow at all.
type Kind int

const (
	KindUnknown Kind = iota
	KindInternal

	// KindDataWarning marks a non-fatal defect in the design data itself:
	// a layer missing thickness where a side-area rule needs it, a via
	// island touching more than two neighboring metal islands. The run
	// continues; the defect is logged.
	KindDataWarning

	// KindInputError marks a bad checker invocation: a net handed to
	// CheckNet that turns out to be a special (power/ground) net, which
	// is skipped rather than the whole run, or a diode cell or net name
	// that isn't in the design, which stops the CLI before any net is
	// checked.
	KindInputError

	// KindPreconditionError marks a design with nothing to check at
	// all: no net has any routed wire. The run aborts.
	KindPreconditionError

	// KindRepairSaturation marks a gate whose diode-insertion loop hit
	// max_diode_count_per_gate without clearing its violation. The run
	// continues; the gate is reported as unrepaired.
	KindRepairSaturation

	// KindRuleGap marks a layer with no antenna rule at all. Expected
	// for top-level routing and the substrate; such layers are simply
	// not checked.
	KindRuleGap
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindDataWarning:
		return "data_warning"
	case KindInputError:
		return "input_error"
	case KindPreconditionError:
		return "precondition_error"
	case KindRepairSaturation:
		return "repair_saturation"
	case KindRuleGap:
		return "rule_gap"
	default:
		return "unknown"
	}
}

// Error is the checker's structured error: a Kind, a human-readable
// message, an optional wrapped cause, and a bag of key/value attributes
// (net name, layer, gate instance) for logging.
type Error struct {
	Kind       Kind
	Message    string
	Underlying error
	Attributes map[string]any
}

func (e *Error) Error() string {
	if e.Underlying == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Underlying)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// New builds a bare Error with no wrapped cause.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Errorf builds a bare Error with a formatted message.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags err with kind and msg, preserving err as the cause. Returns
// nil if err is nil, so call sites can write `return errors.Wrap(err,
// ...)` directly after a fallible call without an extra nil check.
func Wrap(err error, kind Kind, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: msg, Underlying: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, kind Kind, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Underlying: err}
}

// Attr attaches a key/value attribute to err, converting it to a
// KindInternal *Error first if it isn't one already. Returns nil if err
// is nil.
func Attr(err error, key string, val any) error {
	if err == nil {
		return nil
	}

	e, ok := asError(err)
	if !ok {
		e = &Error{Kind: KindInternal, Message: err.Error(), Underlying: err}
	}

	if e.Attributes == nil {
		e.Attributes = make(map[string]any, 1)
	}
	e.Attributes[key] = val
	return e
}

func asError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// GetKind returns the Kind of the first *Error in err's chain, or
// KindUnknown if the chain contains none.
func GetKind(err error) Kind {
	if e, ok := asError(err); ok {
		return e.Kind
	}
	return KindUnknown
}

// GetAttributes walks err's wrap chain and merges every *Error's
// Attributes into one map. Where the same key appears at more than one
// level, the outermost (first-seen) value wins.
func GetAttributes(err error) map[string]any {
	attrs := make(map[string]any)
	for cur := err; cur != nil; {
		e, ok := asError(cur)
		if !ok {
			break
		}
		for k, v := range e.Attributes {
			if _, seen := attrs[k]; !seen {
				attrs[k] = v
			}
		}
		cur = e.Underlying
	}
	return attrs
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain matching target's type and,
// if found, sets target to it and returns true.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling err's Unwrap method, if it has one.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
