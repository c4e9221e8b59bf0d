// Package domain defines the typed identifiers shared across features.
// Parsing lives here so trust-boundary validation is in one place.
package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"

	dErrors "vaultly/pkg/domain-errors"
)

// AccountID identifies a customer account. Accounts are owned by the wider
// app; this service only references them, so the ID stays an opaque string.
type AccountID string

func (a AccountID) String() string { return string(a) }

// ParseAccountID validates an account identifier received at a trust boundary.
func ParseAccountID(raw string) (AccountID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account id is required")
	}
	if !utf8.ValidString(raw) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account id is not valid UTF-8")
	}
	if len(raw) > 128 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account id is too long")
	}
	return AccountID(raw), nil
}

// panPattern is the government PAN format: five letters, four digits, one letter.
var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// PAN is a normalized (uppercase) permanent account number. The zero value is
// invalid; obtain one through ParsePAN so the format invariant always holds.
type PAN string

func (p PAN) String() string { return string(p) }

// Masked returns the PAN with the middle digits hidden, for logs and audit
// events that must not carry the full identity number.
func (p PAN) Masked() string {
	if len(p) != 10 {
		return ""
	}
	return string(p[:2]) + "XXXXXX" + string(p[8:])
}

// ParsePAN normalizes and validates a PAN. Lowercase input is accepted and
// uppercased; anything not matching the ten-character format is rejected.
func ParsePAN(raw string) (PAN, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "PAN is required")
	}
	if !utf8.ValidString(raw) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "PAN is not valid UTF-8")
	}
	if !panPattern.MatchString(raw) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "PAN must match the format AAAAA9999A")
	}
	return PAN(raw), nil
}

// holderNamePattern limits names to what the verification provider accepts.
var holderNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z .']*$`)

// ParseHolderName validates the optional cardholder name supplied alongside a
// PAN. An empty name is allowed (name matching is then skipped).
func ParseHolderName(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if !utf8.ValidString(raw) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "name is not valid UTF-8")
	}
	if len(raw) > 100 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "name must be 100 characters or less")
	}
	if !holderNamePattern.MatchString(raw) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "name contains unsupported characters")
	}
	return raw, nil
}
