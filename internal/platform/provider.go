package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Provider bundles the platform services the overlay depends on.
type Provider struct {
	Clipboard Clipboard
	Store     KVStore
}

// ErrUnsupported is returned when the system clipboard is unavailable.
var ErrUnsupported = fmt.Errorf("agentation: no system clipboard on %s/%s (install xclip, xsel or wl-clipboard)", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc builds the provider. Tests swap it for an in-memory one.
var NewProviderFunc = newSystemProvider

// NewProvider returns a Provider storing state at statePath. An empty path
// uses DefaultStatePath.
func NewProvider(statePath string) (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc(statePath)
}

func newSystemProvider(statePath string) (*Provider, error) {
	if clipboardUnsupported() {
		return nil, ErrUnsupported
	}
	if statePath == "" {
		statePath = DefaultStatePath()
	}
	store, err := OpenFileStore(statePath)
	if err != nil {
		return nil, err
	}
	return &Provider{Clipboard: NewSystemClipboard(), Store: store}, nil
}

// NewMemoryProvider returns a provider backed by in-memory clipboard and
// store. It never touches the system.
func NewMemoryProvider() *Provider {
	return &Provider{Clipboard: &MemoryClipboard{}, Store: NewMemoryStore()}
}

// DefaultStatePath is the per-user state file.
func DefaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "agentation", "state.yaml")
}
