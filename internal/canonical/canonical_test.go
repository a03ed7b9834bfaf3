package canonical

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/farematrix/faremon/constants"
	"github.com/farematrix/faremon/internal/entity"
)

func TestValue(t *testing.T) {
	tests := []struct {
		name string
		col  string
		val  string
		want string
	}{
		{"free text upper", constants.ColVendor, "  latam ", "LATAM"},
		{"flight date passthrough", constants.ColFlightDate, "10/07/2025", "10/07/2025"},
		{"flight date garbage", constants.ColFlightDate, "not a date", ""},
		{"flight date impossible day", constants.ColFlightDate, "31/02/2025", ""},
		{"search stamp collapses to date", constants.ColSearchDate, "05/07/2025, 09:30", "05/07/2025"},
		{"search stamp empty", constants.ColSearchDate, "", ""},
		{"price fixed precision", constants.ColPrice, "1234.5", "1234.50"},
		{"price garbage", constants.ColPrice, "abc", ""},
		{"advp integer", constants.ColADVP, "14", "14"},
		{"advp garbage defaults to zero", constants.ColADVP, "x", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Value(tt.col, tt.val))
		})
	}
}

func TestValue_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, "05/07/2025", Value(constants.ColSearchDate, "05/07/2025, 09:30"))
	}
}

func TestRouteFromFileName(t *testing.T) {
	// Only the first six characters are inspected.
	assert.Equal(t, "GRU-CNF", RouteFromFileName("GRUCNF_sample.pdf"))
	assert.Equal(t, "GRU-CN", RouteFromFileName("GRU_CNF_sample.pdf"))
	assert.Equal(t, "ABC", RouteFromFileName("abc"))
	assert.Equal(t, "GRU-CG", RouteFromFileName("gru_cg_20250705.pdf"))
}

func sampleRecord() entity.OfferRecord {
	return entity.OfferRecord{
		FileName:   "GRUCNF_sample.pdf",
		Airline:    "latam",
		Time1:      "09:30",
		Time2:      "08:05",
		Time3:      "10:10",
		FlightType: "direto",
		FlightDate: "10/07/2025",
		SearchDate: "05/07/2025, 09:30",
		Vendor:     "latam",
		Price:      1234.56,
		Route:      "GRU-CNF",
		ADVP:       5,
		Ranking:    1,
	}
}

func TestRow(t *testing.T) {
	row := Row(sampleRecord())

	assert.Equal(t, "GRUCNF_SAMPLE.PDF", row[constants.ColFileName])
	assert.Equal(t, "LATAM", row[constants.ColAirline])
	assert.Equal(t, "DIRETO", row[constants.ColFlightType])
	assert.Equal(t, "10/07/2025", row[constants.ColFlightDate])
	assert.Equal(t, "05/07/2025", row[constants.ColSearchDate])
	assert.Equal(t, "1234.56", row[constants.ColPrice])
	assert.Equal(t, "5", row[constants.ColADVP])
	assert.Equal(t, "1", row[constants.ColRanking])
}

func TestIdentityKey_Deterministic(t *testing.T) {
	row := Row(sampleRecord())
	get := func(col string) string { return row[col] }

	k1 := IdentityKey(get)
	k2 := IdentityKey(get)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 40) // sha1 hex
}

func TestIdentityKey_IgnoresRanking(t *testing.T) {
	a := Row(sampleRecord())

	rec := sampleRecord()
	rec.Ranking = 7
	b := Row(rec)

	assert.Equal(t,
		IdentityKey(func(c string) string { return a[c] }),
		IdentityKey(func(c string) string { return b[c] }),
	)
}

func TestIdentityKey_SensitiveToIdentityColumns(t *testing.T) {
	a := Row(sampleRecord())

	rec := sampleRecord()
	rec.Price = 999.99
	b := Row(rec)

	assert.NotEqual(t,
		IdentityKey(func(c string) string { return a[c] }),
		IdentityKey(func(c string) string { return b[c] }),
	)
}

func TestIdentityKey_CanonicalizesRawInput(t *testing.T) {
	// A raw row and its canonical form are the same fact.
	raw := map[string]string{
		constants.ColFileName:   "gruCNF_sample.pdf",
		constants.ColAirline:    " latam ",
		constants.ColTime1:      "09:30",
		constants.ColTime2:      "08:05",
		constants.ColTime3:      "10:10",
		constants.ColFlightType: "direto",
		constants.ColFlightDate: "10/07/2025",
		constants.ColSearchDate: "05/07/2025, 09:30",
		constants.ColVendor:     "latam",
		constants.ColPrice:      "1234.56",
		constants.ColRoute:      "GRU-CNF",
		constants.ColADVP:       "5",
	}
	canon := Row(sampleRecord())

	assert.Equal(t,
		IdentityKey(func(c string) string { return canon[c] }),
		IdentityKey(func(c string) string { return raw[c] }),
	)
}
