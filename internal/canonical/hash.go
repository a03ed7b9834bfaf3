package canonical

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/farematrix/faremon/constants"
)

// Identity-column values are joined with a separator no extracted field
// can contain before hashing.
const keySeparator = "||"

// IdentityKey derives the content-addressed dedup key from the canonical
// identity columns, in their fixed order. get returns the stored value of
// a column ("" for columns the row does not carry). The same logical fact
// must always hash identically, whichever cycle extracted it.
func IdentityKey(get func(col string) string) string {
	parts := make([]string, 0, len(constants.OfferIDCols))
	for _, col := range constants.OfferIDCols {
		parts = append(parts, Value(col, get(col)))
	}
	sum := sha1.Sum([]byte(strings.Join(parts, keySeparator)))
	return hex.EncodeToString(sum[:])
}
