package settings

import (
	"github.com/spf13/cast"
)

// SecretMask is the fixed masking sentinel presented in place of sensitive
// values on every read path. Full masking only: partial or hashed previews
// would leak entropy about the secret.
const SecretMask = "********"

// MaskForRead substitutes the mask sentinel for a sensitive, non-empty value.
// Non-sensitive values and empty secrets pass through unchanged. Applying it
// twice yields the same sentinel.
func MaskForRead(def Definition, value any) any {
	if !def.Sensitive {
		return value
	}

	if cast.ToString(value) == "" {
		return value
	}

	return SecretMask
}

// ShouldSkipWrite reports whether an inbound value must not be persisted: a
// sensitive key whose submitted value is exactly the mask sentinel is the
// masked display value coming back unchanged, and writing it would destroy
// the real secret.
func ShouldSkipWrite(def Definition, inbound string) bool {
	return def.Sensitive && inbound == SecretMask
}
