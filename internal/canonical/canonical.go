// Package canonical normalizes extracted fields into the stable,
// comparable representation the identity key is computed over.
// Everything here must stay pure and locale-independent: identical input
// always yields identical output.
package canonical

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/farematrix/faremon/constants"
	"github.com/farematrix/faremon/internal/entity"
)

const dateLayout = "02/01/2006"

// Day-first layouts accepted when re-parsing stored date columns.
var dateLayouts = []string{"02/01/2006", "2/1/2006", "02/01/2006 15:04", "02/01/2006, 15:04"}

var dateToken = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)

// Value canonicalizes a single column value. Free text is trimmed and
// uppercased; dates collapse to DD/MM/YYYY or the empty string; price
// becomes a fixed two-decimal string; ADVP an integer string.
func Value(col, val string) string {
	switch col {
	case constants.ColFlightDate:
		return formatDate(val)
	case constants.ColSearchDate:
		// Only the date part of the capture timestamp identifies a fact.
		return formatDate(dateToken.FindString(val))
	case constants.ColPrice:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("%.2f", f)
	case constants.ColADVP:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return "0"
		}
		return strconv.Itoa(n)
	default:
		return strings.ToUpper(strings.TrimSpace(val))
	}
}

// Row converts an assembled OfferRecord into its canonical column values,
// keyed by the dataset column names.
func Row(r entity.OfferRecord) map[string]string {
	raw := map[string]string{
		constants.ColFileName:   r.FileName,
		constants.ColAirline:    r.Airline,
		constants.ColTime1:      r.Time1,
		constants.ColTime2:      r.Time2,
		constants.ColTime3:      r.Time3,
		constants.ColFlightType: r.FlightType,
		constants.ColFlightDate: r.FlightDate,
		constants.ColSearchDate: r.SearchDate,
		constants.ColVendor:     r.Vendor,
		constants.ColPrice:      fmt.Sprintf("%.2f", r.Price),
		constants.ColRoute:      r.Route,
		constants.ColADVP:       strconv.Itoa(r.ADVP),
	}
	out := make(map[string]string, len(raw)+1)
	for col, val := range raw {
		out[col] = Value(col, val)
	}
	out[constants.ColRanking] = strconv.Itoa(r.Ranking)
	return out
}

// RouteFromFileName derives the route code from the document naming
// convention: the first six characters encode the two route segments
// ("GRUCNF_..." -> "GRU-CNF"). An underscore inside the window splits it
// explicitly; otherwise a full window splits into two 3-letter halves.
// Anything shorter passes through as a single segment.
func RouteFromFileName(name string) string {
	head := name
	if len(head) > 6 {
		head = head[:6]
	}
	head = strings.ToUpper(head)
	if parts := strings.SplitN(head, "_", 2); len(parts) > 1 {
		return parts[0] + "-" + parts[1]
	}
	if len(head) == 6 {
		return head[:3] + "-" + head[3:]
	}
	return head
}

// ParseDate parses a day-first date string; ok is false for values that
// are not dates.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format(dateLayout)
}
