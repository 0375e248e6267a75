package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Gestion-api/pkg/money"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "1.234.567,89", money.Format(decimal.RequireFromString("1234567.89")))
	assert.Equal(t, "0,50", money.Format(decimal.RequireFromString("0.5")))
}
