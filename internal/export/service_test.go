package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/farematrix/faremon/constants"
	"github.com/farematrix/faremon/internal/dataset"
)

func sampleTables() (*dataset.Table, *dataset.Table) {
	offers := dataset.NewTable(constants.OfferCols)
	offers.Append(map[string]string{
		constants.ColFileName:   "GRUCNF_SAMPLE.PDF",
		constants.ColAirline:    "LATAM",
		constants.ColTime1:      "09:30",
		constants.ColTime2:      "08:05",
		constants.ColTime3:      "10:10",
		constants.ColFlightType: "DIRETO",
		constants.ColFlightDate: "10/07/2025",
		constants.ColSearchDate: "05/07/2025",
		constants.ColVendor:     "LATAM",
		constants.ColPrice:      "1234.56",
		constants.ColRoute:      "GRU-CNF",
		constants.ColADVP:       "5",
		constants.ColRanking:    "1",
	})

	errs := dataset.NewTable(constants.ErrorCols)
	errs.Append(map[string]string{
		constants.ColFileName: "GRUCNF_BAD.PDF",
		constants.ColError:    "ERRO ANTIBOT",
		constants.ColSnippet:  "você é uma pessoa ou",
		constants.ColPage:     "1",
		constants.ColCycleID:  "0b6f1c1e-0000-0000-0000-000000000000",
	})
	return offers, errs
}

func TestRenderWorkbook(t *testing.T) {
	offers, errs := sampleTables()

	xlsx, err := NewService(nil).RenderWorkbook(offers, errs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(xlsx))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{constants.SheetOffers, constants.SheetErrors}, f.GetSheetList())

	rows, err := f.GetRows(constants.SheetOffers)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, constants.OfferCols, rows[0])

	vendor, err := f.GetCellValue(constants.SheetOffers, "I2")
	require.NoError(t, err)
	assert.Equal(t, "LATAM", vendor)

	// Price and rank are stored as numbers, not text.
	priceType, err := f.GetCellType(constants.SheetOffers, "J2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, priceType)

	errRows, err := f.GetRows(constants.SheetErrors)
	require.NoError(t, err)
	require.Len(t, errRows, 2)
	assert.Equal(t, constants.ErrorCols, errRows[0])
	assert.Equal(t, "ERRO ANTIBOT", errRows[1][1])
}

func TestRenderWorkbook_EmptyTables(t *testing.T) {
	xlsx, err := NewService(nil).RenderWorkbook(
		dataset.NewTable(constants.OfferCols),
		dataset.NewTable(constants.ErrorCols),
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(xlsx))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(constants.SheetOffers)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, constants.OfferCols, rows[0])
}
