package dataset

import (
	"math"
	"sort"
	"strconv"

	"github.com/farematrix/faremon/constants"
	"github.com/farematrix/faremon/internal/canonical"
)

// Merge folds an increment batch into the master table. Columns are the
// union of both tables; rows are concatenated master-first, deduplicated
// by identity key keeping the last occurrence (so a re-extracted record
// supersedes the stored one), then sorted by search date descending and
// price ascending, ties preserving concatenation order. Inputs are left
// untouched.
func Merge(master, increment *Table) *Table {
	out := NewTable(unionColumns(master, increment))
	for _, t := range []*Table{master, increment} {
		if t == nil {
			continue
		}
		for i := range t.Rows {
			out.Append(t.row(i))
		}
	}

	// Last write wins per identity key; kept rows stay at the position of
	// their last occurrence.
	last := make(map[string]int, len(out.Rows))
	for i := range out.Rows {
		i := i
		last[canonical.IdentityKey(func(col string) string { return out.Get(i, col) })] = i
	}
	keep := make(map[int]struct{}, len(last))
	for _, i := range last {
		keep[i] = struct{}{}
	}
	dedup := out.Rows[:0:0]
	for i, r := range out.Rows {
		if _, ok := keep[i]; ok {
			dedup = append(dedup, r)
		}
	}
	out.Rows = dedup

	sortRows(out)
	return out
}

// sortRows orders by search date descending then price ascending, stable.
// Unparseable dates and prices sort last in their dimension.
func sortRows(t *Table) {
	type sortKey struct {
		date  int64
		price float64
	}
	keys := make([]sortKey, t.Len())
	for i := range t.Rows {
		k := sortKey{date: math.MinInt64, price: math.MaxFloat64}
		if d, ok := canonical.ParseDate(t.Get(i, constants.ColSearchDate)); ok {
			k.date = d.Unix()
		}
		if p, err := strconv.ParseFloat(t.Get(i, constants.ColPrice), 64); err == nil {
			k.price = p
		}
		keys[i] = k
	}
	order := make([]int, t.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := keys[order[a]], keys[order[b]]
		if ka.date != kb.date {
			return ka.date > kb.date
		}
		return ka.price < kb.price
	})
	rows := make([][]string, t.Len())
	for i, j := range order {
		rows[i] = t.Rows[j]
	}
	t.Rows = rows
}
