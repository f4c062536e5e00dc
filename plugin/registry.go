// Package plugin is the compile-time replacement for the original
// coordinator's dynamic-library module loader (spec.md §9 "replace
// with ... a registered factory-provider table"). A problem package
// calls Register in its init() to make itself loadable by name; the
// coordinator and helper both resolve FACTORY.moduleName through the
// same registry, so the wire FACTORY message stays unchanged.
//
// Grounded on genetic/registry/registry.go's Registry, simplified from
// a stateful species table to a name -> constructor map since this
// registry only needs to answer "build me a fresh Factory of this kind".
package plugin

import (
	"fmt"
	"sync"

	"github.com/kestrelga/distga/ga"
)

// Constructor builds a new, uninitialized Factory instance. Each call
// must return an independent value — the coordinator and helper both
// hold one live factory per loaded module.
type Constructor func() ga.Factory

var (
	mu        sync.RWMutex
	providers = make(map[string]Constructor)
)

// Register makes a module constructible by name. Calling Register twice
// for the same name is a programmer error and panics, mirroring the
// original registry's "species already registered" rejection surfaced
// at init time rather than at dial time.
func Register(name string, ctor Constructor) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := providers[name]; exists {
		panic(fmt.Sprintf("plugin: module %q already registered", name))
	}
	providers[name] = ctor
}

// New builds a fresh Factory for the named module. Returns false if no
// such module is registered. The helper reports that as
// FACTORY_RESULT(available=0) without closing the connection
// (spec.md §7 "Factory" error category); the coordinator instead closes
// the submitting client's connection.
func New(name string) (ga.Factory, bool) {
	mu.RLock()
	ctor, ok := providers[name]
	mu.RUnlock()
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// Known reports whether name is registered, for diagnostics.
func Known(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := providers[name]
	return ok
}
