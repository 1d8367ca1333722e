package adjustment

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// defaultNumberPrefix is used when the adjustment type is empty
const defaultNumberPrefix = "TXN"

// GenerateNumber produces a human-readable adjustment number of the form
// "{PREFIX}-{TOKEN}", where PREFIX is the first three characters of the
// adjustment type upper-cased and TOKEN is a 4-character random token.
//
// The generator does not guarantee system-wide uniqueness; the persistence
// layer's unique constraint on adjustment_number does. Callers that hit a
// duplicate should generate again.
func GenerateNumber(t Type) string {
	prefix := defaultNumberPrefix
	if s := string(t); s != "" {
		if len(s) > 3 {
			s = s[:3]
		}
		prefix = strings.ToUpper(s)
	}
	return prefix + "-" + randomToken(4)
}

// randomToken returns an upper-cased hex token of length n
func randomToken(n int) string {
	buf := make([]byte, (n+1)/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand on supported platforms does not fail; fall back to a
		// fixed token so number assignment still proceeds.
		return strings.Repeat("0", n)
	}
	return strings.ToUpper(hex.EncodeToString(buf))[:n]
}
