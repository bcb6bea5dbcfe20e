// Package kv wraps the local key-value store that persists all workspace
// state. The store is synchronous and string-valued, mirroring browser local
// storage: Get tolerates absence, Set failures are the caller's to log and
// ignore, and malformed values are a consumer concern (consumers fall back
// to defaults rather than erroring).
package kv

import "errors"

// Well-known keys. Every persisted piece of state lives under exactly one of
// these.
const (
	KeyWorkspace   = "workspace"    // { root: Folder } — the entire tree
	KeyOpenTabs    = "open-tabs"    // ordered [ { fileId, filePath } ]
	KeyActiveTab   = "active-tab"   // file id string
	KeyLayout      = "layout"       // { explorerWidthPct, editorHeightPct }
	KeyOutputCache = "output-cache" // { path: last execution output }
)

// ErrNoKey is returned by Get when the key has never been set.
var ErrNoKey = errors.New("no such key")

// Store is a synchronous string key-value store.
type Store interface {
	// Get returns the value for key, or ErrNoKey when absent.
	Get(key string) (string, error)

	// Set writes the value for key.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Close releases the underlying resources.
	Close() error
}
