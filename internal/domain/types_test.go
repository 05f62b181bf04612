package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_Valid(t *testing.T) {
	tests := []struct {
		name     string
		identity Identity
		expected bool
	}{
		{
			name:     "short opaque identity",
			identity: "W1",
			expected: true,
		},
		{
			name:     "solana address",
			identity: "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
			expected: true,
		},
		{
			name:     "empty identity",
			identity: "",
			expected: false,
		},
		{
			name:     "whitespace only",
			identity: "   ",
			expected: false,
		},
		{
			name:     "too long",
			identity: Identity(make([]byte, MAX_IDENTITY_LENGTH+1)),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.identity.Valid())
		})
	}
}

func TestIsSolanaAddress(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		expected bool
	}{
		{
			name:     "system program",
			address:  SYSTEM_PROGRAM_ID,
			expected: true,
		},
		{
			name:     "wallet address",
			address:  "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
			expected: true,
		},
		{
			name:     "invalid base58 characters",
			address:  "0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl",
			expected: false,
		},
		{
			name:     "too short",
			address:  "abc",
			expected: false,
		},
		{
			name:     "empty",
			address:  "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSolanaAddress(tt.address))
		})
	}
}

func TestParseWindow(t *testing.T) {
	assert.Equal(t, Window48h, ParseWindow("48h"))
	assert.Equal(t, Window7d, ParseWindow("7d"))
	assert.Equal(t, Window7d, ParseWindow(" 7D "))
	assert.Equal(t, Window48h, ParseWindow(""))
	assert.Equal(t, Window48h, ParseWindow("30d"))

	assert.Equal(t, 48*time.Hour, Window48h.Duration())
	assert.Equal(t, 7*24*time.Hour, Window7d.Duration())
	assert.Equal(t, 48*time.Hour, Window("bogus").Duration())
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expected  float64
		expectErr bool
	}{
		{name: "integer", raw: "50", expected: 50},
		{name: "decimal", raw: "12.5", expected: 12.5},
		{name: "negative", raw: "-3", expected: -3},
		{name: "exponent", raw: "1e2", expected: 100},
		{name: "zero", raw: " 0 ", expected: 0},
		{name: "string number", raw: `"50"`, expectErr: true},
		{name: "null", raw: "null", expectErr: true},
		{name: "boolean", raw: "true", expectErr: true},
		{name: "missing", raw: "", expectErr: true},
		{name: "object", raw: `{"v":1}`, expectErr: true},
		{name: "overflow", raw: "1e400", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseNumber(json.RawMessage(tt.raw))
			if tt.expectErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(1.5))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(1)))
	assert.False(t, IsFinite(math.Inf(-1)))
}
