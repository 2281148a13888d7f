package inr

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	got := Format(decimal.RequireFromString("1234567.5"))
	assert.True(t, strings.HasPrefix(got, "₹"))
	assert.True(t, strings.HasSuffix(got, ".50"))
	assert.Contains(t, got, ",")

	assert.Equal(t, "₹0.00", Format(decimal.Zero))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "30.00%", Percent(decimal.RequireFromString("0.3")))
	assert.Equal(t, "4.00%", Percent(decimal.RequireFromString("0.04")))
}
