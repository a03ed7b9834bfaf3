package constants

import "strings"

// Vendors is the closed set of agencies and carriers whose names may claim
// a price line. Matching is substring-based over a whitespace-stripped,
// lowercased line; precedence is longest-match-wins so that an entry whose
// name contains another entry (e.g. "submarinoviagens") can never lose to
// the shorter one.
var Vendors = []string{
	"123milhas", "agoda", "airbnb", "aircanada", "airfrance", "aeromexico",
	"americanairlines", "ancoradouro", "azul", "booking.com", "capoviagens",
	"cestarollitravel", "confianca", "cvc", "decolar", "esferatur", "expedia",
	"flipmilhas", "flytourgapnet", "gol", "googleflights", "gotogate",
	"hoteis.com", "hurb", "iberia", "jetsmart", "kayak", "kissandfly",
	"kiwi.com", "latam", "lufthansa", "maxmilhas", "momondo", "mrsmrssmith",
	"mytrip", "passagenspromo", "primetour", "queensberryviagens",
	"rexturadvance", "sakuratur", "skyscanner", "submarinoviagens", "tap",
	"trendoperadora", "traveloka", "trip.com", "unitedairlines", "viajanet",
	"visualturismo", "voepass", "vrbo", "zarpo", "zupper",
}

// Airlines is the closed set of operating carriers, in match-precedence
// order: the first entry found anywhere in the page text wins.
var Airlines = []string{
	"gol", "latam", "azul", "voepass", "jetsmart", "airfrance",
	"unitedairlines", "iberia", "lufthansa", "aeromexico", "aircanada",
	"americanairlines", "tap",
}

// ReservedVendors are legitimate intermediate matches that are excluded
// from the admitted dataset after all other filtering (the aggregator
// brand whose captures the documents come from).
var ReservedVendors = map[string]struct{}{
	"skyscanner": {},
}

// MatchVendor reports the vendor named in line, if any. The line is
// lowercased and stripped of all whitespace before matching; the longest
// matching vocabulary entry wins.
func MatchVendor(line string) (string, bool) {
	norm := stripSpace(strings.ToLower(line))
	best := ""
	for _, v := range Vendors {
		if strings.Contains(norm, v) && len(v) > len(best) {
			best = v
		}
	}
	return best, best != ""
}

// MatchAirline returns the first airline, in vocabulary order, whose name
// occurs anywhere in the lowercased text.
func MatchAirline(text string) (string, bool) {
	low := strings.ToLower(text)
	for _, a := range Airlines {
		if strings.Contains(low, a) {
			return a, true
		}
	}
	return "", false
}

// IsReservedVendor reports whether name (case-insensitive) is excluded
// from the admitted dataset.
func IsReservedVendor(name string) bool {
	_, ok := ReservedVendors[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func stripSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
