package orders

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const numberSuffixLen = 5

var base36Alphabet = []byte("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateOrderNumber returns a display-facing order reference of the form
// ORD-<unix-millis>-<5 base36 chars>. Uniqueness is enforced by the DB
// constraint, not by this generator.
func GenerateOrderNumber(now time.Time) string {
	var suffix strings.Builder
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := 0; i < numberSuffixLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failure is unrecoverable noise; degrade to a
			// time-derived digit rather than panic
			suffix.WriteByte(base36Alphabet[now.UnixNano()%int64(len(base36Alphabet))])
			continue
		}
		suffix.WriteByte(base36Alphabet[n.Int64()])
	}
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix.String())
}
