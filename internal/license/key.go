package license

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// KeySuffix is appended to every derived activation key.
const KeySuffix = "-SG249"

// systemIDLength is the number of characters in a generated system ID.
const systemIDLength = 5

// DeriveKey computes the activation key expected for a system ID:
// reverse the ID, move its (new) first character to index 2 (or the end if
// shorter), append KeySuffix and uppercase the result.
//
//	HELLO -> OLLEH -> LLOEH -> LLOEH-SG249
func DeriveKey(systemID string) string {
	r := []rune(systemID)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	if len(r) > 0 {
		c, rest := r[0], r[1:]
		pos := min(2, len(rest))
		scrambled := make([]rune, 0, len(r))
		scrambled = append(scrambled, rest[:pos]...)
		scrambled = append(scrambled, c)
		scrambled = append(scrambled, rest[pos:]...)
		r = scrambled
	}
	return strings.ToUpper(string(r) + KeySuffix)
}

// NormalizeKey trims and uppercases user input before comparison.
func NormalizeKey(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}

// NewSystemID generates a short uppercase identifier for a fresh install.
func NewSystemID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(id[:systemIDLength])
}

// RequestLink builds the WhatsApp deep link used to ask the developer for an
// activation key.
func RequestLink(systemID, countryCode, developerPhone string) string {
	msg := fmt.Sprintf("*LICENSE RENEWAL REQUEST*\n\n"+
		"Hello, I am using the billing software and my license has ended. I have paid the renewal fee.\n\n"+
		"*My System ID:* %s\n\n"+
		"Please verify my payment and send the Activation Key.", systemID)
	text := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s%s?text=%s", countryCode, developerPhone, text)
}
