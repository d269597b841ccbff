package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	en := NewFormatter("en-US", "USD")
	assert.Equal(t, "USD 1,234.50", en.Format(decimal.RequireFromString("1234.5")))

	// Los separadores exactos dependen de los datos CLDR del locale.
	es := NewFormatter("es-CO", "")
	assert.Regexp(t, `^25[.,\x{a0}]000[.,]00$`, es.Format(decimal.NewFromInt(25000)))
}

func TestFormat_InvalidLocaleFallsBack(t *testing.T) {
	f := NewFormatter("???", "COP")
	assert.Regexp(t, `^COP 10[.,]00$`, f.Format(decimal.NewFromInt(10)))
}
