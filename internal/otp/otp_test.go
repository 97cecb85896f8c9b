package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-platform/internal/httperr"
)

func TestGenerateDigits(t *testing.T) {
	for _, n := range []int{ArrivalDigits, BookingDigits} {
		code, err := Generate(n)
		require.NoError(t, err)
		assert.Len(t, code, n)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}

func TestMatchIsExact(t *testing.T) {
	assert.NoError(t, Match("4821", "4821"))
	assert.NoError(t, Match("4821", " 4821 "))
	assert.True(t, httperr.IsBusiness(Match("4821", "9999"), "invalid_otp"))
	assert.True(t, httperr.IsBusiness(Match("4821", "48210"), "invalid_otp"))
	assert.True(t, httperr.IsBusiness(Match("4821", ""), "invalid_otp"))
}
