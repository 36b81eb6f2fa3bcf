package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	emailRe   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	lowerRe   = regexp.MustCompile("[a-z]")
	upperRe   = regexp.MustCompile("[A-Z]")
	digitRe   = regexp.MustCompile("[0-9]")
	specialRe = regexp.MustCompile(`[^A-Za-z0-9]`)
)

var (
	ErrNotNumeric  = errors.New("must be a number")
	ErrNotPositive = errors.New("must be greater than zero")
	ErrOutOfRange  = errors.New("is out of range")
	ErrBadDate     = errors.New("must be an RFC 3339 timestamp or YYYY-MM-DD date")
)

// Bounds on the textual amount. Rounding or comparing a decimal rescales its
// coefficient by 10^|exponent|, so both must be small before any arithmetic.
const (
	maxAmountText     = 32
	maxAmountExponent = 12
	minAmountExponent = -maxAmountText
)

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

func ValidateUsername(username string) bool {
	return len(username) >= 3 && len(username) <= 30
}

func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	return lowerRe.MatchString(password) &&
		upperRe.MatchString(password) &&
		digitRe.MatchString(password) &&
		specialRe.MatchString(password)
}

// IsAbsent reports whether a raw JSON value was omitted or null.
func IsAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// ParseAmount accepts a JSON number or a numeric JSON string and requires it
// to be strictly positive. Values whose text or exponent is too large to
// handle cheaply are rejected with ErrOutOfRange.
func ParseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			return decimal.Zero, ErrNotNumeric
		}
		text = num.String()
	}

	text = strings.TrimSpace(text)
	if len(text) > maxAmountText {
		return decimal.Zero, ErrOutOfRange
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, ErrNotNumeric
	}
	if exp := amount.Exponent(); exp > maxAmountExponent || exp < minAmountExponent {
		return decimal.Zero, ErrOutOfRange
	}
	if !amount.IsPositive() {
		return decimal.Zero, ErrNotPositive
	}
	return amount, nil
}

// ParseDate accepts a JSON string holding either an RFC 3339 timestamp or a
// calendar date. Calendar dates are taken as midnight UTC.
func ParseDate(raw json.RawMessage) (time.Time, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return time.Time{}, ErrBadDate
	}
	text = strings.TrimSpace(text)

	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, text); err == nil {
		return t, nil
	}
	return time.Time{}, ErrBadDate
}
