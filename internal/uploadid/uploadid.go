// Package uploadid derives the stable identifier that keys every update
// event exchanged with the editor front-end.
package uploadid

import "github.com/cespare/xxhash/v2"

// Derive computes a deterministic 32-bit identifier from an item's canonical
// storage key. The key exists before any server identity, so the identifier
// can be recomputed at any time instead of being persisted in a mapping
// table. The hash space is far smaller than the key space; collisions across
// unrelated items are accepted as a known limitation of this scheme.
func Derive(localKey string) int32 {
	return int32(uint32(xxhash.Sum64String(localKey)))
}
