package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farematrix/faremon/internal/entity"
)

func TestExtractOffers_VendorClaimsAdjacentPrice(t *testing.T) {
	pages := []string{"05/07/2025, 09:30\nLATAM\nR$ 1.234,56"}
	offers, stamp := extractOffers(pages, "")

	require.Len(t, offers, 1)
	assert.Equal(t, entity.Offer{Vendor: "latam", Price: 1234.56}, offers[0])
	assert.Equal(t, "05/07/2025, 09:30", stamp)
}

func TestExtractOffers_SameLineVendorAndPrice(t *testing.T) {
	offers, _ := extractOffers([]string{"Decolar R$ 899,00"}, "")
	require.Len(t, offers, 1)
	assert.Equal(t, "decolar", offers[0].Vendor)
	assert.Equal(t, 899.00, offers[0].Price)
}

func TestExtractOffers_DisplacedVendorIsDropped(t *testing.T) {
	// "gol" never sees a price before "latam" takes the register.
	pages := []string{"GOL\nLATAM\nR$ 450,00"}
	offers, _ := extractOffers(pages, "")
	require.Len(t, offers, 1)
	assert.Equal(t, "latam", offers[0].Vendor)
}

func TestExtractOffers_UnclaimedTrailingVendorIsDropped(t *testing.T) {
	pages := []string{"LATAM\nR$ 450,00\nGOL"}
	offers, _ := extractOffers(pages, "")
	require.Len(t, offers, 1)
	assert.Equal(t, "latam", offers[0].Vendor)
}

func TestExtractOffers_PriceWithoutVendorIsIgnored(t *testing.T) {
	offers, _ := extractOffers([]string{"R$ 450,00\nLATAM"}, "")
	assert.Empty(t, offers)
}

func TestExtractOffers_RegisterClearsAfterClaim(t *testing.T) {
	// One vendor claims at most one adjacent price.
	pages := []string{"LATAM\nR$ 450,00\nR$ 500,00"}
	offers, _ := extractOffers(pages, "")
	require.Len(t, offers, 1)
	assert.Equal(t, 450.00, offers[0].Price)
}

func TestExtractOffers_DigitsRejoinedAcrossLineBreak(t *testing.T) {
	// The renderer sometimes splits an amount across a line break.
	pages := []string{"LATAM\nR$ 1.23\n4,56"}
	offers, _ := extractOffers(pages, "")
	require.Len(t, offers, 1)
	assert.Equal(t, 1234.56, offers[0].Price)
}

func TestExtractOffers_CutoffLineEndsTheList(t *testing.T) {
	pages := []string{"LATAM\nR$ 450,00\nComplemente sua viagem\nGOL\nR$ 100,00"}
	offers, _ := extractOffers(pages, "")
	require.Len(t, offers, 1)
	assert.Equal(t, "latam", offers[0].Vendor)
}

func TestExtractOffers_UnparseablePriceLineDiscarded(t *testing.T) {
	// Two decimal commas cannot parse; the register stays armed for the
	// next price line.
	pages := []string{"LATAM\nR$ 1,2,3\nR$ 450,00"}
	offers, _ := extractOffers(pages, "")
	require.Len(t, offers, 1)
	assert.Equal(t, 450.00, offers[0].Price)
}

func TestExtractOffers_CallerStampWins(t *testing.T) {
	pages := []string{"05/07/2025, 09:30\nLATAM\nR$ 450,00"}
	_, stamp := extractOffers(pages, "01/01/2025, 00:00")
	assert.Equal(t, "01/01/2025, 00:00", stamp)
}

func TestExtractOffers_StampOnlyInLeadingLines(t *testing.T) {
	lines := "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\nk\n05/07/2025, 09:30"
	_, stamp := extractOffers([]string{lines}, "")
	assert.Empty(t, stamp)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"1.234,56", 1234.56, true},
		{"450,00", 450.00, true},
		{"450", 450, true},
		{"12 345,00", 12345.00, true},
		{"1,2,3", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parsePrice(tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
		if ok {
			assert.Equal(t, tt.want, got, tt.raw)
		}
	}
}
