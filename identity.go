package load

import (
	"crypto/sha256"
	"encoding/hex"
)

// idPrefix keeps derived identifiers out of the way of ids a host may already
// use for unrelated elements.
const idPrefix = "script-"

// Identify derives the stable identifier for a resource locator. Identical
// locators always yield identical identifiers; distinct locators collide only
// with the probability of a 64-bit sha256 prefix collision.
func Identify(locator string) string {
	sum := sha256.Sum256([]byte(locator))
	return idPrefix + hex.EncodeToString(sum[:8])
}
