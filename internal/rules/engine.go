package rules

import (
	"log/slog"

	"github.com/farematrix/faremon/internal/entity"
)

// Engine applies the ordered extraction heuristics to one document's
// page text. It is stateless across documents; each method is pure over
// its inputs.
type Engine struct {
	logger *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// ScreenFirstPage runs the anomaly rules over the document's first page.
// A match is recorded as data and does not stop further extraction.
func (e *Engine) ScreenFirstPage(fileName, page string) *entity.ErrorRecord {
	code, snippet, ok := screenFirstPage(page)
	if !ok {
		return nil
	}
	e.logger.Warn("rules.screen.anomaly", "file", fileName, "code", code)
	return &entity.ErrorRecord{FileName: fileName, Code: code, Snippet: snippet, Page: 1}
}

// FlightInfo extracts the per-document flight metadata from the first
// page, or an ErrorRecord when the page is recognized as not being an
// offer page at all.
func (e *Engine) FlightInfo(fileName, page string) (*entity.FlightInfo, *entity.ErrorRecord) {
	info, code := extractFlightInfo(page)
	if code != "" {
		e.logger.Warn("rules.flightinfo.rejected", "file", fileName, "code", code)
		return nil, &entity.ErrorRecord{FileName: fileName, Code: code, Page: 1}
	}
	return info, nil
}

// Offers scans all pages for vendor/price pairs; searchStamp is adopted
// from the document when the caller passes none.
func (e *Engine) Offers(fileName string, pages []string, searchStamp string) ([]entity.Offer, string) {
	offers, stamp := extractOffers(pages, searchStamp)
	e.logger.Debug("rules.offers.scanned", "file", fileName, "offers", len(offers), "search_stamp", stamp)
	return offers, stamp
}
