package order

import (
	"math/rand"
	"strconv"
	"time"
)

const numberSuffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewOrderNumber builds a human-readable order number:
// ORD-<last 6 digits of epoch millis>-<6 random uppercase chars>.
// The time component keeps numbers roughly monotonic, the suffix keeps
// concurrent checkouts apart. Uniqueness is still enforced by the
// database; on a collision the whole checkout transaction aborts and
// the caller retries with a fresh number.
func NewOrderNumber() string {
	ms := strconv.FormatInt(time.Now().UnixMilli(), 10)
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = numberSuffixAlphabet[rand.Intn(len(numberSuffixAlphabet))]
	}
	return "ORD-" + ms[len(ms)-6:] + "-" + string(suffix)
}
