// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sramc

import (
	"sort"

	"github.com/maruel/natural"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// An Option configures a Factory.
//
type Option func(*factory)

// WithLogger sets the factory logger. The default is zerolog.Nop().
//
func WithLogger(l zerolog.Logger) Option {
	return func(f *factory) { f.log = l }
}

type factory struct {
	lib   Library
	cache cmap.ConcurrentMap[string, *Module]
	log   zerolog.Logger
}

// A Factory builds modules from their arguments and memoizes them: requesting
// the same Kind/Name twice returns the same *Module.
//
// A Factory is safe for concurrent use. Concurrent requests for the same
// module may build it more than once, but all callers get the same cached
// result.
//
type Factory struct {
	*factory
	stack []string // keys being built in the current build chain
}

// NewFactory returns a new factory backed by the given primitive library.
//
func NewFactory(lib Library, opts ...Option) *Factory {
	f := &factory{
		lib:   lib,
		cache: cmap.New[*Module](),
		log:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(f)
	}
	return &Factory{factory: f}
}

// Logger returns the factory logger.
//
func (f *Factory) Logger() *zerolog.Logger { return &f.log }

// Library returns the primitive library.
//
func (f *Factory) Library() Library { return f.lib }

func cacheKey(args Args) string { return args.Kind() + "/" + args.Name() }

// Module returns the module described by args, building it if it is not
// cached yet. Failed builds are not cached.
//
func (f *Factory) Module(args Args) (*Module, error) {
	key := cacheKey(args)
	if m, ok := f.cache.Get(key); ok {
		return m, nil
	}
	name := args.Name()
	for _, k := range f.stack {
		if k == key {
			return nil, InvalidArgf("build circuit %s: recursive module definition", name)
		}
	}
	sub := &Factory{factory: f.factory, stack: append(f.stack[:len(f.stack):len(f.stack)], key)}
	m := newModule(name, args, f.log)
	if err := args.Build(m, sub); err != nil {
		return nil, errors.Wrapf(err, "build circuit %s", name)
	}
	if !f.cache.SetIfAbsent(key, m) {
		m, _ = f.cache.Get(key)
		return m, nil
	}
	f.log.Info().Str("circuit", name).Int("instances", len(m.instances)).Msg("create circuit")
	return m, nil
}

// Gate returns the library gate of the given kind and strength.
//
func (f *Factory) Gate(kind GateKind, s Strength) (*Primitive, error) {
	if p, ok := f.lib.Gate(kind, s); ok {
		return p, nil
	}
	return nil, errors.Wrapf(ErrPrimitiveNotFound, "gate %s %s", kind, s)
}

// DFF returns the library flip-flop of the given strength.
//
func (f *Factory) DFF(s Strength) (*Primitive, error) {
	if p, ok := f.lib.DFF(s); ok {
		return p, nil
	}
	return nil, errors.Wrapf(ErrPrimitiveNotFound, "dff %s", s)
}

// Leafcell returns the library leaf cell of the given kind.
//
func (f *Factory) Leafcell(kind LeafKind) (*Primitive, error) {
	if p, ok := f.lib.Leafcell(kind); ok {
		return p, nil
	}
	return nil, errors.Wrapf(ErrPrimitiveNotFound, "leaf cell %s", kind)
}

// Modules returns all cached modules in natural name order.
//
func (f *Factory) Modules() []*Module {
	ms := make([]*Module, 0, f.cache.Count())
	for _, m := range f.cache.Items() {
		ms = append(ms, m)
	}
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].name == ms[j].name {
			return ms[i].args.Kind() < ms[j].args.Kind()
		}
		return natural.Less(ms[i].name, ms[j].name)
	})
	return ms
}
