package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNCF(t *testing.T) {
	assert.Equal(t, "B0100000001", NCF("B01", 1))
	assert.Equal(t, "B0100012345", NCF("B01", 12345))
	assert.Equal(t, "B02123456789", NCF("B02", 123456789))
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "RD$0.00", Currency(0))
	assert.Equal(t, "RD$0.05", Currency(5))
	assert.Equal(t, "RD$1.00", Currency(100))
	assert.Equal(t, "RD$1,234.56", Currency(123456))
	assert.Equal(t, "RD$1,234,567.89", Currency(123456789))
	assert.Equal(t, "-RD$1,234.56", Currency(-123456))
}
