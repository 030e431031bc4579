package loader

import "fmt"

// Config holds the four documented configuration knobs shared by the
// format decoders that need them (ply most directly; obj and threeds reuse
// MaxVerticesInChunk and AllowDuplicateVerticesInChunk).
type Config struct {
	// MaxVerticesInChunk bounds the number of vertices a single DataChunk
	// may hold before it is finalized and a new one started. Default
	// 0xFFFF, minimum 1. Triangles are never split across chunks, so a
	// chunk of faces always takes at least one whole triangle (three
	// vertices) even when the cap is below 3.
	MaxVerticesInChunk int
	// AllowDuplicateVerticesInChunk, when true, appends a fresh vertex for
	// every face reference instead of reusing a chunk-local index for a
	// vertex already emitted in the current chunk. Default false.
	AllowDuplicateVerticesInChunk bool
	// MaxStreamPositions bounds the PLY stream-position cache. Default
	// 1,000,000, minimum 1.
	MaxStreamPositions int
	// FileSizeLimitToKeepInMemory is the byte threshold under which a
	// decoder may slurp the whole file instead of relying on positioned
	// reads. Default 50,000,000.
	FileSizeLimitToKeepInMemory int64
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxVerticesInChunk:            0xFFFF,
		AllowDuplicateVerticesInChunk: false,
		MaxStreamPositions:            1_000_000,
		FileSizeLimitToKeepInMemory:   50_000_000,
	}
}

// Option mutates a Config; constructors across ply/obj/threeds/stl accept
// ...Option the way a handful of boolean fields (CalculateNormals,
// SmoothNormals) get set via exported struct fields elsewhere in the
// corpus, generalized here into functional options so defaults stay
// centralized.
type Option func(*Config)

// WithMaxVerticesInChunk overrides MaxVerticesInChunk.
func WithMaxVerticesInChunk(n int) Option {
	return func(c *Config) { c.MaxVerticesInChunk = n }
}

// WithAllowDuplicateVerticesInChunk overrides AllowDuplicateVerticesInChunk.
func WithAllowDuplicateVerticesInChunk(allow bool) Option {
	return func(c *Config) { c.AllowDuplicateVerticesInChunk = allow }
}

// WithMaxStreamPositions overrides MaxStreamPositions.
func WithMaxStreamPositions(n int) Option {
	return func(c *Config) { c.MaxStreamPositions = n }
}

// WithFileSizeLimitToKeepInMemory overrides FileSizeLimitToKeepInMemory.
func WithFileSizeLimitToKeepInMemory(n int64) Option {
	return func(c *Config) { c.FileSizeLimitToKeepInMemory = n }
}

// NewConfig applies opts over the defaults and validates the documented
// minimums, returning an InvalidArgument error on violation.
func NewConfig(opts ...Option) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.MaxVerticesInChunk < 1 {
		return Config{}, New(InvalidArgument, fmt.Sprintf("maxVerticesInChunk must be >= 1, got %d", cfg.MaxVerticesInChunk))
	}
	if cfg.MaxStreamPositions < 1 {
		return Config{}, New(InvalidArgument, fmt.Sprintf("maxStreamPositions must be >= 1, got %d", cfg.MaxStreamPositions))
	}
	return cfg, nil
}
