package booking

import (
	"crypto/rand"
	"math/big"
)

// Charset omits 0/O/1/I so reference codes survive being read aloud.
const referenceCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const referenceLength = 6

// NewReference generates a human-readable booking reference such as "APT-7KQ2MX".
// Uniqueness is enforced by the appointment collection's index, not here.
func NewReference() string {
	buf := make([]byte, referenceLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceCharset))))
		if err != nil {
			// crypto/rand failing means the platform is broken; fall back to a
			// fixed character rather than panicking mid-booking.
			buf[i] = referenceCharset[0]
			continue
		}
		buf[i] = referenceCharset[n.Int64()]
	}
	return "APT-" + string(buf)
}
