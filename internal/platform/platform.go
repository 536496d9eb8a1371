package platform

// Clipboard reads and writes the system clipboard as plain text.
type Clipboard interface {
	GetText() (string, error)
	SetText(text string) error
}

// KVStore is small key-value storage for UI state that should survive a
// restart, such as the toolbar position. Writes are best-effort.
type KVStore interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool)
	Set(key, value string) error
}
