package embedding

import (
	"crypto/md5"
	"encoding/hex"
)

// Fingerprint derives the short cache version identifier for a model.
// Two distinct model identifiers produce distinct fingerprints (up to
// negligible hash-collision probability), so caches built for different
// models never overwrite each other.
func Fingerprint(modelID string) string {
	sum := md5.Sum([]byte(modelID))
	return hex.EncodeToString(sum[:])[:8]
}
