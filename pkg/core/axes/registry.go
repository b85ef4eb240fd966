// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package axes

import (
	"slices"
	"strings"
	"sync"

	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"
)

// Registry creates and keeps track of axis kinds, at most one per name.
//
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Kind
	names []string // In registration order.
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]Kind)}
}

// invalidNameChars can't be used in axis names, since they are used to format keys.
const invalidNameChars = ",()[]= \t\n"

func validateName(name string) {
	if name == "" {
		exceptions.Panicf("axes: axis name cannot be empty")
	}
	if strings.ContainsAny(name, invalidNameChars) {
		exceptions.Panicf("axes: invalid axis name %q, it cannot contain any of %q", name, invalidNameChars)
	}
}

// Register creates the kinds for the given names and returns only the ones newly created,
// in the order given: re-registering a known name is a no-op.
//
// It panics if a name is empty or contains separator characters like ',' or '('.
func (r *Registry) Register(names ...string) []Kind {
	for _, name := range names {
		validateName(name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var created []Kind
	for _, name := range names {
		if _, found := r.kinds[name]; found {
			continue
		}
		k := Kind{name: name}
		r.kinds[name] = k
		r.names = append(r.names, name)
		created = append(created, k)
		klog.V(2).Infof("axes: registered axis kind %q", name)
	}
	return created
}

// Kind returns the Kind for the given name, registering it if needed.
func (r *Registry) Kind(name string) Kind {
	r.mu.RLock()
	k, found := r.kinds[name]
	r.mu.RUnlock()
	if found {
		return k
	}
	r.Register(name)
	return r.MustLookup(name)
}

// Setup returns one Kind per name, in the order given, registering the ones that are new.
func (r *Registry) Setup(names ...string) []Kind {
	r.Register(names...)
	kinds := make([]Kind, len(names))
	for ii, name := range names {
		kinds[ii] = r.MustLookup(name)
	}
	return kinds
}

// Lookup returns the Kind for the given name, if it was registered.
func (r *Registry) Lookup(name string) (Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, found := r.kinds[name]
	return k, found
}

// MustLookup is like Lookup, but panics if the name was not registered.
func (r *Registry) MustLookup(name string) Kind {
	k, found := r.Lookup(name)
	if !found {
		exceptions.Panicf("axes: axis %q not registered", name)
	}
	return k
}

// Names returns the registered names, in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.names)
}

// defaultRegistry is the process-wide registry used by the package level functions.
var defaultRegistry = NewRegistry()

// Register creates kinds in the default registry and returns only the newly created ones.
// See Registry.Register.
func Register(names ...string) []Kind { return defaultRegistry.Register(names...) }

// Setup returns one Kind per name from the default registry, registering new names as needed.
//
// Example:
//
//	kinds := axes.Setup("key", "seq", "val")
//	key, seq, val := kinds[0], kinds[1], kinds[2]
func Setup(names ...string) []Kind { return defaultRegistry.Setup(names...) }

// Lookup a Kind by name in the default registry.
func Lookup(name string) (Kind, bool) { return defaultRegistry.Lookup(name) }

// Names registered in the default registry.
func Names() []string { return defaultRegistry.Names() }
