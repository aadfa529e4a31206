// Package protocol builds the short reference code handed to a submitter.
package protocol

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Generate concatenates the last 6 digits of now in Unix milliseconds with a random
// number in [1000, 9999]. Codes are not globally unique: two submissions in the same
// millisecond can collide. Uniqueness is enforced by the store's unique index.
// Times before 1970 use the absolute millisecond value so the code stays numeric.
func Generate(now time.Time) string {
	ms := now.UnixMilli() % 1_000_000
	if ms < 0 {
		ms = -ms
	}
	return fmt.Sprintf("%06d%d", ms, 1000+rand.IntN(9000))
}
