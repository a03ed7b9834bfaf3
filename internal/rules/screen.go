package rules

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule pairs a layout pattern with the outcome code it produces. Rule
// tables are evaluated in order, first match wins.
type Rule struct {
	Pattern *regexp.Regexp
	Code    string
}

// Anomaly codes for recognized bad captures.
const (
	CodePageError     = "ERRO DE PAGINA"
	CodeAntibot       = "ERRO ANTIBOT"
	CodeHomepage      = "ErroPaginaInicial"
	CodeDecolarBundle = "ErroPaginaDecolar"
)

// firstPageAnomalies flag captures that hit a generic landing page or an
// anti-bot challenge. The document is still fed through extraction for
// whatever partial data is present.
var firstPageAnomalies = []Rule{
	{regexp.MustCompile(`(?i)as melhores ofertas e promoções`), CodePageError},
	{regexp.MustCompile(`(?i)destinos nacionais mais buscados`), CodePageError},
	{regexp.MustCompile(`(?i)encaminhando para o website soli`), CodePageError},
	{regexp.MustCompile(`(?i)passagens aéreas em promoção\s*\|\s*l`), CodePageError},
	{regexp.MustCompile(`(?i)skyscanner\s+você\s+é\s+uma\s+pessoa\s+ou`), CodeAntibot},
}

// pageRejections identify documents that are not an offer page at all;
// flight-info extraction is abandoned for these.
var pageRejections = []Rule{
	{regexp.MustCompile(`(?i)passagens aéreas.*hotéis.*aluguel de carros`), CodeHomepage},
	{regexp.MustCompile(`(?i)pacotes de viagens`), CodeDecolarBundle},
}

// screenFirstPage runs the anomaly rules over the first page and returns
// the matched code plus a ±25 character window around the match.
func screenFirstPage(text string) (code, snippet string, ok bool) {
	for _, r := range firstPageAnomalies {
		loc := r.Pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		start := runeFloor(text, max(0, loc[0]-25))
		end := runeCeil(text, min(len(text), loc[1]+25))
		snippet = strings.TrimSpace(strings.ReplaceAll(text[start:end], "\n", " "))
		return r.Code, snippet, true
	}
	return "", "", false
}

// rejectPage returns the rejection code for documents that are not offer
// pages.
func rejectPage(text string) (string, bool) {
	for _, r := range pageRejections {
		if r.Pattern.MatchString(text) {
			return r.Code, true
		}
	}
	return "", false
}

// runeFloor/runeCeil snap a byte offset to the nearest rune boundary so
// snippet windows never split a UTF-8 sequence.
func runeFloor(s string, i int) int {
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

func runeCeil(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
