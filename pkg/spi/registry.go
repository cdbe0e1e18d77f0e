package spi

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/provide-io/distbundle/pkg/platform"
)

// Factory creates a fresh bundler instance.
type Factory func() NativeAppBundler

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Key builds the registration key of a bundler id for a target, e.g.
// "oracle-native-launcher@windows-x64".
func Key(id string, target platform.Target) string {
	return id + "@" + target.String()
}

// Register adds a bundler factory under key. Registering a key twice panics.
func Register(key string, factory Factory) {
	key = strings.TrimSpace(key)
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[key]; exists {
		panic(fmt.Sprintf("bundler with key '%s' already registered", key))
	}
	registry[key] = factory
}

// Lookup instantiates the bundler registered under key.
func Lookup(key string) (NativeAppBundler, error) {
	registryMu.RLock()
	factory, ok := registry[strings.TrimSpace(key)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown bundler: %s", key)
	}
	return factory(), nil
}

// Keys returns all registered keys in sorted order.
func Keys() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// KeysFor returns the registered keys whose target is t, sorted.
func KeysFor(t platform.Target) []string {
	suffix := "@" + t.String()
	var keys []string
	for _, k := range Keys() {
		if strings.HasSuffix(k, suffix) {
			keys = append(keys, k)
		}
	}
	return keys
}
