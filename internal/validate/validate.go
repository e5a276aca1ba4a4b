// Package validate normalizes untrusted field values before they reach
// storage. Substitution never fails; every fallback is logged.
package validate

import (
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Validator sanitizes catalog and account fields.
type Validator struct {
	log *zap.Logger
}

// New builds a Validator.
func New(log *zap.Logger) *Validator {
	return &Validator{log: log}
}

var Module = fx.Module("validate",
	fx.Provide(New),
)

// String trims the value and substitutes "Unknown <fieldName>" for empty
// input. The result is truncated to maxLength runes when maxLength is
// positive. The cut lands on a rune boundary and any whitespace it exposes
// is trimmed, so re-validating a validated value is a no-op.
func (v *Validator) String(value, fieldName string, maxLength int) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = "Unknown " + fieldName
		v.warn("string", fieldName, "empty value substituted")
	}
	if maxLength > 0 && utf8.RuneCountInString(trimmed) > maxLength {
		runes := []rune(trimmed)
		trimmed = strings.TrimSpace(string(runes[:maxLength]))
		v.warn("string", fieldName, "value truncated")
	}
	return trimmed
}

// Price substitutes 0 for negative input and rounds half-up at the cent
// boundary.
func (v *Validator) Price(value float64) float64 {
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		v.warn("price", "price", "invalid value substituted")
		return 0
	}
	return math.Floor(value*100+0.5) / 100
}

// PriceCents converts a price to integer cents, rounding half-up.
// Negative input is substituted with 0.
func (v *Validator) PriceCents(value float64) int64 {
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		v.warn("price", "price", "invalid value substituted")
		return 0
	}
	return int64(math.Floor(value*100 + 0.5))
}

// Integer substitutes 0 for negative input.
func (v *Validator) Integer(value int64, fieldName string) int64 {
	if value < 0 {
		v.warn("integer", fieldName, "negative value substituted")
		return 0
	}
	return value
}

// IsFallback reports whether the value is a substitution produced by String.
func (v *Validator) IsFallback(value, fieldName string) bool {
	return strings.TrimSpace(value) == "Unknown "+fieldName
}

func (v *Validator) warn(kind, fieldName, reason string) {
	if v.log == nil {
		return
	}
	v.log.Warn("field substituted",
		zap.String("kind", kind),
		zap.String("field", fieldName),
		zap.String("reason", reason),
	)
}
