package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchVendor(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
		ok   bool
	}{
		{"exact", "latam", "latam", true},
		{"embedded in line", "Oferta LATAM a partir de", "latam", true},
		{"whitespace insensitive", "Submarino   Viagens", "submarinoviagens", true},
		{"dotted brand", "reserve em Booking.com agora", "booking.com", true},
		{"longest wins over substring entry", "submarinoviagens", "submarinoviagens", true},
		{"no vendor", "Voo direto 08:05", "", false},
		{"reserved vendor still matches", "Skyscanner", "skyscanner", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchVendor(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchAirline_OrderPrecedence(t *testing.T) {
	// "gol" precedes "latam" in vocabulary order; both occur in the text.
	got, ok := MatchAirline("voe LATAM ou GOL hoje")
	require.True(t, ok)
	assert.Equal(t, "gol", got)
}

func TestMatchAirline_NoMatch(t *testing.T) {
	_, ok := MatchAirline("nenhuma companhia aqui")
	assert.False(t, ok)
}

func TestIsReservedVendor(t *testing.T) {
	assert.True(t, IsReservedVendor("skyscanner"))
	assert.True(t, IsReservedVendor("  SKYSCANNER "))
	assert.False(t, IsReservedVendor("latam"))
}

func TestOfferIDColsExcludeRanking(t *testing.T) {
	for _, col := range OfferIDCols {
		assert.NotEqual(t, ColRanking, col)
	}
	assert.Equal(t, ColRanking, OfferCols[len(OfferCols)-1])
}
