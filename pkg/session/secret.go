package session

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// newCode draws a 5-digit numeric code uniformly from [10000, 99999].
func newCode(rng *rand.Rand) string {
	return fmt.Sprintf("%d", 10000+rng.Intn(90000))
}

// newToken assembles an opaque magic-link token from two independent
// random segments. Tokens are globally unique in practice, which is
// what makes identity-free token verification safe.
func newToken() string {
	return uuid.NewString() + "." + uuid.NewString()
}
