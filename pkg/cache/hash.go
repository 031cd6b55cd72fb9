package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// =============================================================================
// Keyers
// =============================================================================

// Keyer derives cache keys.
type Keyer interface {
	// CheckpointKey is the key of the saved positions for a graph.
	CheckpointKey(graphHash string, opts CheckpointKeyOpts) string
}

// CheckpointKeyOpts are the settings a checkpoint depends on besides the
// graph itself.
type CheckpointKeyOpts struct {
	// Scope separates checkpoints of the same graph, e.g. per session.
	Scope string `json:"scope,omitempty"`
}

// DefaultKeyer is the unprefixed Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// CheckpointKey returns "checkpoint:<hash>". Options are folded into the
// hash when set, so the common case stays readable.
func (DefaultKeyer) CheckpointKey(graphHash string, opts CheckpointKeyOpts) string {
	if opts == (CheckpointKeyOpts{}) {
		return "checkpoint:" + graphHash
	}
	return hashKey("checkpoint", graphHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix, so that several deployments
// can share one Redis or Mongo store.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "wikigraph:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// CheckpointKey generates a prefixed checkpoint key.
func (k *ScopedKeyer) CheckpointKey(graphHash string, opts CheckpointKeyOpts) string {
	return k.prefix + k.inner.CheckpointKey(graphHash, opts)
}
