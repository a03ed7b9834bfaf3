package pipeline

import (
	"strconv"

	"github.com/farematrix/faremon/constants"
	"github.com/farematrix/faremon/internal/canonical"
	"github.com/farematrix/faremon/internal/dataset"
	"github.com/farematrix/faremon/internal/entity"
)

// ComputeADVP returns the advance-purchase window in days: flight date
// minus search date, both truncated to the day. Defaults to 0 when either
// side does not parse.
func ComputeADVP(flightDate, searchStamp string) int {
	fd, ok := canonical.ParseDate(flightDate)
	if !ok {
		return 0
	}
	sd, ok := canonical.ParseDate(canonical.Value(constants.ColSearchDate, searchStamp))
	if !ok {
		return 0
	}
	return int(fd.Sub(sd).Hours() / 24)
}

// buildIncrement turns the cycle's raw records into the canonical
// increment table: ADVP is computed per record, incomplete records and
// reserved vendors are dropped, and admitted offers are ranked by price
// per document (ties share the minimum rank, cheapest admitted offer is
// always rank 1).
func buildIncrement(records []entity.OfferRecord) *dataset.Table {
	type admittedRow struct {
		rec entity.OfferRecord
		row map[string]string
	}
	var admitted []admittedRow

	for _, r := range records {
		r.ADVP = ComputeADVP(r.FlightDate, r.SearchDate)
		row := canonical.Row(r)
		if !complete(row) {
			continue
		}
		if constants.IsReservedVendor(r.Vendor) {
			continue
		}
		admitted = append(admitted, admittedRow{rec: r, row: row})
	}

	for i := range admitted {
		rank := 1
		for j := range admitted {
			if admitted[j].rec.FileName == admitted[i].rec.FileName &&
				admitted[j].rec.Price < admitted[i].rec.Price {
				rank++
			}
		}
		admitted[i].row[constants.ColRanking] = strconv.Itoa(rank)
	}

	t := dataset.NewTable(constants.OfferCols)
	for _, a := range admitted {
		t.Append(a.row)
	}
	return t
}

// complete reports whether every identity column is present; records
// missing any required field are filtered, not errored.
func complete(row map[string]string) bool {
	for _, col := range constants.OfferIDCols {
		if row[col] == "" {
			return false
		}
	}
	return true
}
