// Package pipeline drives one processing cycle: select changed documents,
// extract and canonicalize their records, merge the increment into the
// master dataset, then mark the documents seen.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/farematrix/faremon/constants"
	"github.com/farematrix/faremon/internal/canonical"
	"github.com/farematrix/faremon/internal/common"
	"github.com/farematrix/faremon/internal/dataset"
	"github.com/farematrix/faremon/internal/entity"
	"github.com/farematrix/faremon/internal/export"
	"github.com/farematrix/faremon/internal/pdftext"
	"github.com/farematrix/faremon/internal/rules"
	"github.com/farematrix/faremon/internal/state"
)

// Stats summarizes one cycle.
type Stats struct {
	Scanned  int
	Selected int
	Offers   int
	Errors   int
}

// Cycle owns a cycle's increment batch and the read-modify-write
// transaction over the master dataset. It is strictly sequential: one
// document is fully extracted before the next begins.
type Cycle struct {
	cfg       *common.Config
	extractor pdftext.TextExtractor
	engine    *rules.Engine
	snapshots *dataset.Store
	states    *state.Store
	exporter  *export.Service
	logger    *slog.Logger
}

func NewCycle(
	cfg *common.Config,
	extractor pdftext.TextExtractor,
	engine *rules.Engine,
	snapshots *dataset.Store,
	states *state.Store,
	exporter *export.Service,
	logger *slog.Logger,
) *Cycle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cycle{
		cfg:       cfg,
		extractor: extractor,
		engine:    engine,
		snapshots: snapshots,
		states:    states,
		exporter:  exporter,
		logger:    logger,
	}
}

// masterCandidates lists where an already-versioned master snapshot may
// live; the first hit wins.
func (c *Cycle) masterCandidates() []string {
	return []string{
		c.cfg.Output.MasterFile,
		"OFERTAS.csv",
		filepath.Join("data", "OFERTAS.csv"),
	}
}

// Run executes one cycle. Per-document failures are contained and
// converted to data or skips; only cycle-level failures (I/O,
// persistence) are returned.
func (c *Cycle) Run(ctx context.Context) (Stats, error) {
	cycleID := uuid.New()
	log := c.logger.With("cycle_id", cycleID.String())

	paths, err := filepath.Glob(filepath.Join(c.cfg.Inbox.Dir, "*.pdf"))
	if err != nil {
		return Stats{}, fmt.Errorf("list inbox: %w", err)
	}
	sort.Strings(paths)

	stats := Stats{Scanned: len(paths)}
	if len(paths) == 0 {
		log.Info("cycle.scan.empty", "dir", c.cfg.Inbox.Dir)
		return stats, nil
	}

	seen, err := c.states.Load(ctx)
	if err != nil {
		return stats, fmt.Errorf("load signatures: %w", err)
	}

	// attempted maps document path to the signature it will be marked
	// seen with once the merge persists.
	attempted := map[string]string{}
	var selected []string
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			log.Warn("cycle.stat.failed", "path", p, "error", err)
			continue
		}
		sig := state.Signature(fi)
		if seen[p] == sig {
			continue
		}
		selected = append(selected, p)
		attempted[p] = sig
	}
	stats.Selected = len(selected)
	if len(selected) == 0 {
		log.Info("cycle.scan.unchanged", "scanned", stats.Scanned)
		return stats, nil
	}
	log.Info("cycle.scan.selected", "scanned", stats.Scanned, "selected", stats.Selected)

	var records []entity.OfferRecord
	var errRecords []entity.ErrorRecord
	for _, p := range selected {
		recs, errs := c.processDocument(ctx, log, p)
		records = append(records, recs...)
		errRecords = append(errRecords, errs...)
	}

	increment := buildIncrement(records)
	stats.Offers = increment.Len()
	stats.Errors = len(errRecords)

	if err := c.persist(increment, errRecords, cycleID, log); err != nil {
		return stats, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}

	// Signatures last: a crash before this point only means reprocessing,
	// never silent loss.
	if err := c.states.Put(ctx, attempted); err != nil {
		return stats, fmt.Errorf("save signatures: %w", err)
	}

	log.Info("cycle.done", "offers", stats.Offers, "errors", stats.Errors)
	return stats, nil
}

// processDocument runs the rule engine over one document. All failures
// are contained here: an unreadable document yields nothing, a recognized
// bad layout yields ErrorRecords.
func (c *Cycle) processDocument(ctx context.Context, log *slog.Logger, path string) ([]entity.OfferRecord, []entity.ErrorRecord) {
	fn := filepath.Base(path)

	res, err := c.extractor.Extract(ctx, path)
	if err != nil {
		log.Warn("cycle.extract.unreadable", "file", fn, "error", err)
		return nil, nil
	}

	firstPage := ""
	if len(res.Pages) > 0 {
		firstPage = res.Pages[0]
	}

	var errRecords []entity.ErrorRecord
	if rec := c.engine.ScreenFirstPage(fn, firstPage); rec != nil {
		errRecords = append(errRecords, *rec)
	}

	info, rejected := c.engine.FlightInfo(fn, firstPage)
	if rejected != nil {
		errRecords = append(errRecords, *rejected)
	}

	offers, stamp := c.engine.Offers(fn, res.Pages, "")

	route := canonical.RouteFromFileName(fn)
	records := make([]entity.OfferRecord, 0, len(offers))
	for _, o := range offers {
		r := entity.OfferRecord{
			FileName:   fn,
			SearchDate: stamp,
			Vendor:     o.Vendor,
			Price:      o.Price,
			Route:      route,
		}
		if info != nil {
			r.Airline = info.Airline
			r.FlightType = info.FlightType
			r.FlightDate = info.FlightDate
			for i, t := range info.Times {
				switch i {
				case 0:
					r.Time1 = t
				case 1:
					r.Time2 = t
				case 2:
					r.Time3 = t
				}
			}
		}
		records = append(records, r)
	}
	return records, errRecords
}

// persist merges the increment into the master snapshot, appends the
// audit errors, and re-renders the workbook. The master write is atomic;
// nothing mutates the signature store here.
func (c *Cycle) persist(increment *dataset.Table, errRecords []entity.ErrorRecord, cycleID uuid.UUID, log *slog.Logger) error {
	master, err := c.snapshots.LoadFirst(c.masterCandidates(), constants.OfferCols)
	if err != nil {
		return fmt.Errorf("load master: %w", err)
	}
	merged := dataset.Merge(master, increment)
	if err := c.snapshots.Save(c.cfg.Output.MasterFile, merged); err != nil {
		return fmt.Errorf("save master: %w", err)
	}
	log.Info("cycle.merge.ok", "master_rows", merged.Len(), "increment_rows", increment.Len())

	if err := c.snapshots.Save(c.cfg.Output.IncrementFile, increment); err != nil {
		return fmt.Errorf("save increment: %w", err)
	}

	errTable, err := c.snapshots.Load(c.cfg.Output.ErrorsFile, constants.ErrorCols)
	if err != nil {
		return fmt.Errorf("load errors: %w", err)
	}
	for _, e := range errRecords {
		errTable.Append(errorRow(e, cycleID))
	}
	if err := c.snapshots.Save(c.cfg.Output.ErrorsFile, errTable); err != nil {
		return fmt.Errorf("save errors: %w", err)
	}

	xlsx, err := c.exporter.RenderWorkbook(merged, errTable)
	if err != nil {
		return fmt.Errorf("render workbook: %w", err)
	}
	if err := os.WriteFile(c.cfg.Output.WorkbookFile, xlsx, 0o644); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// errorRow formats an audit row. The file name follows the dataset's
// canonical form; code and snippet are kept verbatim, they are evidence.
func errorRow(e entity.ErrorRecord, cycleID uuid.UUID) map[string]string {
	return map[string]string{
		constants.ColFileName: canonical.Value(constants.ColFileName, e.FileName),
		constants.ColError:    e.Code,
		constants.ColSnippet:  e.Snippet,
		constants.ColPage:     strconv.Itoa(e.Page),
		constants.ColCycleID:  cycleID.String(),
	}
}
