package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/farematrix/faremon/constants"
	"github.com/farematrix/faremon/internal/entity"
)

// Text after this phrase on the first page is rendering noise.
const timesCutoff = "verificando preços e disponibilidade"

const maxTimes = 3

var (
	timeRegex       = regexp.MustCompile(`\b(\d{2}:\d{2})\b`)
	directRegex     = regexp.MustCompile(`\bdireto\b`)
	stopsRegex      = regexp.MustCompile(`(\d+)\s*escalas?`)
	layoversRegex   = regexp.MustCompile(`(\d+)\s*paradas?`)
	flightDateRegex = regexp.MustCompile(`ida[^\d]*(\d{1,2})\s+de\s+([a-zç]+)\.?\s+de\s+(\d{4})`)
)

// monthMap resolves 3-letter Portuguese month prefixes.
var monthMap = map[string]int{
	"jan": 1, "fev": 2, "mar": 3, "abr": 4, "mai": 5, "jun": 6,
	"jul": 7, "ago": 8, "set": 9, "out": 10, "nov": 11, "dez": 12,
}

// extractFlightInfo derives the per-document flight metadata from the
// first page's text. Returns a rejection code instead when the page is
// not an offer page.
func extractFlightInfo(text string) (*entity.FlightInfo, string) {
	low := strings.ToLower(text)

	if code, ok := rejectPage(text); ok {
		return nil, code
	}

	snippet := text
	if idx := strings.Index(low, timesCutoff); idx != -1 {
		snippet = text[:idx]
	}

	var times []string
	tokens := timeRegex.FindAllStringIndex(snippet, -1)
	for _, loc := range tokens {
		if len(times) < maxTimes {
			times = append(times, snippet[loc[0]:loc[1]])
		}
	}

	// Flight type hides in the ~200 chars after the second time token.
	flightType := ""
	if len(tokens) >= 2 {
		pos := tokens[1][1]
		window := strings.ToLower(snippet[pos:runeCeil(snippet, min(len(snippet), pos+200))])
		switch {
		case directRegex.MatchString(window):
			flightType = "DIRETO"
		default:
			if m := stopsRegex.FindStringSubmatch(window); m != nil {
				flightType = fmt.Sprintf("%s ESCALAS", m[1])
			} else if m := layoversRegex.FindStringSubmatch(window); m != nil {
				flightType = fmt.Sprintf("%s PARADAS", m[1])
			}
		}
	}

	airline := ""
	if a, ok := constants.MatchAirline(low); ok {
		airline = strings.ToUpper(a)
	}

	flightDate := ""
	if m := flightDateRegex.FindStringSubmatch(low); m != nil {
		if month, ok := monthMap[monthKey(m[2])]; ok {
			flightDate = fmt.Sprintf("%s/%02d/%s", pad2(m[1]), month, m[3])
		}
	}

	return &entity.FlightInfo{
		Airline:    airline,
		Times:      times,
		FlightType: flightType,
		FlightDate: flightDate,
	}, ""
}

// monthKey takes the first three runes of a month name.
func monthKey(name string) string {
	r := []rune(name)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

func pad2(day string) string {
	if len(day) == 1 {
		return "0" + day
	}
	return day
}
