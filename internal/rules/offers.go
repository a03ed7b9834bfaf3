package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/farematrix/faremon/constants"
	"github.com/farematrix/faremon/internal/entity"
)

// The offer list ends at this line; everything after is cross-sell noise.
const offersCutoff = "complemente sua viagem"

// How many leading lines may carry the capture timestamp.
const searchStampLines = 10

var (
	priceRegex       = regexp.MustCompile(`R\$\s*([\d\s\.,]+)`)
	searchStampRegex = regexp.MustCompile(`(\d{2}/\d{2}/\d{4},\s*\d{2}:\d{2})`)
	splitDigitRegex  = regexp.MustCompile(`(\d)\n(\d)`)
	nonPriceRune     = regexp.MustCompile(`[^\d,]`)
)

// scanState is the offer-line scanner's explicit state machine: a vendor
// line arms the register, the next price line claims it.
type scanState int

const (
	stateIdle scanState = iota
	stateVendorPending
)

// extractOffers scans the concatenated page text for vendor/price pairs.
// searchStamp is adopted from the document's leading lines when the caller
// passes none. A vendor displaced before claiming a price is dropped.
func extractOffers(pages []string, searchStamp string) ([]entity.Offer, string) {
	text := strings.Join(pages, "\n")

	// Amounts rendered across a line break ("1.234\n,56") re-join here.
	text = splitDigitRegex.ReplaceAllString(text, "$1$2")

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	for i, l := range lines {
		if strings.Contains(strings.ToLower(l), offersCutoff) {
			lines = lines[:i]
			break
		}
	}

	if searchStamp == "" {
		for i, l := range lines {
			if i >= searchStampLines {
				break
			}
			if m := searchStampRegex.FindStringSubmatch(l); m != nil {
				searchStamp = m[1]
				break
			}
		}
	}

	var offers []entity.Offer
	state := stateIdle
	pending := ""
	for _, l := range lines {
		if v, ok := constants.MatchVendor(l); ok {
			state = stateVendorPending
			pending = v
		}
		pm := priceRegex.FindStringSubmatch(l)
		if pm == nil || state != stateVendorPending {
			continue
		}
		price, ok := parsePrice(pm[1])
		if !ok {
			continue
		}
		offers = append(offers, entity.Offer{Vendor: pending, Price: price})
		state = stateIdle
		pending = ""
	}
	return offers, searchStamp
}

// parsePrice strips the thousands separators ("1.234,56"), swaps the
// decimal comma for a point, and parses the remainder.
func parsePrice(raw string) (float64, bool) {
	num := strings.ReplaceAll(nonPriceRune.ReplaceAllString(raw, ""), ",", ".")
	price, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}
