package sentinelconfig

import (
	"fmt"
	"io/fs"
	"slices"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/eugenenazirov/sentinelconf/internal/properties"
	"github.com/eugenenazirov/sentinelconf/internal/source"
	"github.com/eugenenazirov/sentinelconf/internal/sysprop"
)

// LoadFunc reads the configuration at path. A nil or empty map means there is
// nothing to merge.
type LoadFunc func(path string) (map[string]string, error)

// PropertySource returns a point-in-time copy of the process properties.
type PropertySource func() map[string]string

// Option configures a Loader.
type Option func(*Loader)

// WithResolver overrides how the configuration path is chosen.
func WithResolver(resolver *source.Resolver) Option {
	return func(l *Loader) {
		l.resolver = resolver
	}
}

// WithLoadFunc overrides the configuration file loader.
func WithLoadFunc(load LoadFunc) Option {
	return func(l *Loader) {
		l.load = load
	}
}

// WithResources makes fsys serve classpath: paths for the default file loader.
func WithResources(fsys fs.FS) Option {
	return func(l *Loader) {
		loader := &properties.Loader{Resources: fsys}
		l.load = loader.Load
	}
}

// WithPropertySource overrides where process properties are read from.
func WithPropertySource(props PropertySource) Option {
	return func(l *Loader) {
		l.props = props
	}
}

// WithLogger sets the logger. Without it the global zap logger is used at the
// time of logging.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Loader builds the shared Store exactly once.
type Loader struct {
	resolver *source.Resolver
	load     LoadFunc
	props    PropertySource
	logger   *zap.Logger

	store  *Store
	once   sync.Once
	result Result
}

// New constructs a Loader. Nothing is read until Init is called.
func New(opts ...Option) *Loader {
	l := &Loader{
		resolver: source.New(),
		load:     (&properties.Loader{}).Load,
		props:    sysprop.Snapshot,
		store:    newStore(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Init runs initialization on the first call and returns its result on every
// call. Failures are logged and reported in the result, never returned.
func (l *Loader) Init() Result {
	l.once.Do(func() {
		l.result = l.initialize()
		if l.result.Err != nil {
			l.log().Warn("failed to initialize configuration items",
				zap.String("path", l.result.Source.Path),
				zap.String("status", string(l.result.Status)),
				zap.Error(l.result.Err),
			)
		}
	})

	res := l.result
	res.Overrides = slices.Clone(l.result.Overrides)
	return res
}

// Properties returns the shared store. It never triggers initialization and
// never returns nil.
func (l *Loader) Properties() *Store {
	return l.store
}

func (l *Loader) initialize() (res Result) {
	res.Status = StatusFailed
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic during initialization: %v", r)
		}
	}()

	res.Source = l.resolver.Resolve()

	entries, err := l.load(res.Source.Path)
	if err != nil {
		res.Err = err
		return res
	}
	if len(entries) > 0 {
		l.log().Info("loading Sentinel config",
			zap.String("path", res.Source.Path),
			zap.String("origin", string(res.Source.Origin)),
		)
		l.store.PutAll(entries)
		res.FileEntries = len(entries)
	}
	res.Status = StatusPartial

	res.Overrides = l.overlay(l.props())
	res.Status = StatusComplete
	return res
}

// overlay writes every property into the store. Properties always win; each
// replaced value is logged and returned.
func (l *Loader) overlay(props map[string]string) []Override {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var overrides []Override
	for _, key := range keys {
		value := props[key]
		old, existed := l.store.Put(key, value)
		if !existed {
			continue
		}
		overrides = append(overrides, Override{Key: key, Old: old, New: value})
		l.log().Info("process property overrides config entry",
			zap.String("key", key),
			zap.String("old", old),
			zap.String("new", value),
		)
	}
	return overrides
}

func (l *Loader) log() *zap.Logger {
	logger := l.logger
	if logger == nil {
		logger = zap.L()
	}
	return logger.With(zap.String("component", "sentinel_config"))
}
