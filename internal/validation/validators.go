// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package validation

import (
	"regexp"
	"strings"

	"github.com/exa-laboratories/antennacheck/internal/errors"
)

var (
	// Valid layer/net/gate identifier: alphanumeric, dash, underscore, dot,
	// slash and square brackets (dots and slashes show up in hierarchical
	// instance names like "core.u12/A", brackets in bus bits like "bus[3]").
	identifierRegex = regexp.MustCompile(`^[a-zA-Z0-9_./\[\]-]+$`)

	// Dangerous characters that should never appear in a report-sink path
	// or an identifier echoed back into report text.
	dangerousChars = []string{";", "|", "&", "$", "`", "<", ">", "\n", "\r", "\x00"}
)

// ValidateIdentifier validates a net, gate, pin, or layer name as read from
// the database adapter before it is echoed into report text or used as a
// map key.
func ValidateIdentifier(id string) error {
	if id == "" {
		return errors.New(errors.KindInputError, "identifier cannot be empty")
	}
	if len(id) > 1024 {
		return errors.New(errors.KindInputError, "identifier too long (max 1024 characters)")
	}
	if !identifierRegex.MatchString(id) {
		return errors.Errorf(errors.KindInputError, "invalid identifier: %s", id)
	}
	for _, ch := range dangerousChars {
		if strings.Contains(id, ch) {
			return errors.Errorf(errors.KindInputError, "identifier contains disallowed character: %s", ch)
		}
	}
	return nil
}

// ValidateRatioMargin checks the ratioMargin input of §6: a percentage
// reduction of fixed thresholds, interpreted in [0, 100).
func ValidateRatioMargin(margin float64) error {
	if margin < 0 || margin >= 100 {
		return errors.Errorf(errors.KindInputError, "ratio margin out of range [0, 100): %v", margin)
	}
	return nil
}

// ValidateMaxDiodeCount checks the diode-loop saturation cap of §4.5 is a
// usable positive bound.
func ValidateMaxDiodeCount(max int) error {
	if max <= 0 {
		return errors.Errorf(errors.KindInputError, "max diode count per gate must be positive: %d", max)
	}
	return nil
}

// SanitizeString removes characters that must never appear in report text
// or a log line, for display purposes only (never for security-sensitive
// decisions).
func SanitizeString(s string) string {
	for _, ch := range dangerousChars {
		s = strings.ReplaceAll(s, ch, "")
	}
	return s
}
