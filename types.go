package viewspec

// Options configures a Registry and the JSON parsing it performs.
type Options struct {
	// CacheSize bounds the number of compiled validators kept in memory.
	// Zero selects the default.
	CacheSize int
	// MaxDepth limits nesting of parsed JSON payloads. Zero disables it.
	MaxDepth int
	// MaxBytes limits the size of parsed JSON payloads. Zero disables it.
	MaxBytes int64
	// RejectDuplicateKeys turns a repeated object key into a parse error.
	// When false the last occurrence wins.
	RejectDuplicateKeys bool
}

// DefaultOptions returns the options used by NewRegistry when none are given.
func DefaultOptions() Options {
	return Options{CacheSize: 256, MaxDepth: 64, MaxBytes: 1 << 20}
}
