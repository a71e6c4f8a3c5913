package lib

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatLegacyPrice(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  string
	}{
		{"shorthand thousands", "1250", "1,250,000원"},
		{"large value kept", "12000000", "12,000,000원"},
		{"comma separated above cutoff", "12,500", "12,500원"},
		{"cutoff is not rescaled", "10000", "10,000원"},
		{"just below cutoff", "9999", "9,999,000원"},
		{"inquiry text kept", "문의", "문의"},
		{"json number", json.Number("1250"), "1,250,000원"},
		{"float", 350.0, "350,000원"},
		{"int", 2500000, "2,500,000원"},
		{"fraction", "1.5", "1,500원"},
		{"padded", "  4,800  ", "4,800,000원"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, FormatLegacyPrice(tc.value, PublicPrice))
		})
	}
}

func TestFormatLegacyPricePlaceholders(t *testing.T) {
	for _, value := range []any{nil, "", "   ", 0, 0.0, json.Number("0"), false} {
		require.Equal(t, "가격 미정", FormatLegacyPrice(value, AdminPrice), "value %#v", value)
		require.Equal(t, "", FormatLegacyPrice(value, PublicPrice), "value %#v", value)
	}
}

func TestFormatLegacyPriceStringZeroIsAPrice(t *testing.T) {
	require.Equal(t, "0원", FormatLegacyPrice("0", AdminPrice))
}
