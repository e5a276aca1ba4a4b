package validate

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newValidator() *Validator {
	return New(zap.NewNop())
}

func TestStringSubstitutesFallback(t *testing.T) {
	v := newValidator()

	assert.Equal(t, "Unknown Developer", v.String("", "Developer", 255))
	assert.Equal(t, "Unknown Developer", v.String("   ", "Developer", 255))
	assert.Equal(t, "Valve", v.String("  Valve  ", "Developer", 255))
}

func TestStringTruncates(t *testing.T) {
	v := newValidator()

	long := strings.Repeat("a", 300)
	assert.Len(t, v.String(long, "Description", 255), 255)

	// The cut never splits a rune and never leaves trailing whitespace.
	assert.Equal(t, "hé", v.String("héllo", "Name", 2))
	assert.True(t, utf8.ValidString(v.String(strings.Repeat("é", 300), "Name", 255)))
	assert.Equal(t, "ab", v.String("ab c", "Name", 3))
}

func TestPriceRoundsHalfUp(t *testing.T) {
	v := newValidator()

	assert.Equal(t, 59.99, v.Price(59.99))
	assert.Equal(t, 60.0, v.Price(59.995))
	assert.Equal(t, 59.99, v.Price(59.994))
	assert.Equal(t, 0.0, v.Price(-1))
}

func TestPriceCents(t *testing.T) {
	v := newValidator()

	assert.Equal(t, int64(5999), v.PriceCents(59.99))
	assert.Equal(t, int64(6000), v.PriceCents(59.995))
	assert.Equal(t, int64(0), v.PriceCents(-59.99))
	assert.Equal(t, int64(0), v.PriceCents(0))
}

func TestIntegerSubstitutesZero(t *testing.T) {
	v := newValidator()

	assert.Equal(t, int64(0), v.Integer(-5, "Playtime"))
	assert.Equal(t, int64(42), v.Integer(42, "Playtime"))
}

func TestValidationIsIdempotent(t *testing.T) {
	v := newValidator()

	once := v.String("", "Publisher", 255)
	assert.Equal(t, once, v.String(once, "Publisher", 255))

	cut := v.String("ab c", "Publisher", 3)
	assert.Equal(t, cut, v.String(cut, "Publisher", 3))

	runeCut := v.String(strings.Repeat("é", 300), "Publisher", 255)
	assert.Equal(t, runeCut, v.String(runeCut, "Publisher", 255))

	price := v.Price(19.999)
	assert.Equal(t, price, v.Price(price))

	n := v.Integer(-1, "Playtime")
	assert.Equal(t, n, v.Integer(n, "Playtime"))
}

func TestIsFallback(t *testing.T) {
	v := newValidator()

	assert.True(t, v.IsFallback("Unknown Name", "Name"))
	assert.True(t, v.IsFallback(v.String("", "Name", 255), "Name"))
	assert.False(t, v.IsFallback("Portal 2", "Name"))
}
