package parser

// Limits bounds the work a single parse call may do. A zero field means
// no limit for that dimension.
type Limits struct {
	MaxInputBytes int
	MaxTokens     int
	MaxStatements int
	// MaxDepth bounds parenthesis nesting inside placeholder bodies.
	MaxDepth int
}

// Default limit values.
const (
	DefaultMaxInputBytes = 1 << 20
	DefaultMaxTokens     = 1 << 16
	DefaultMaxStatements = 1024
	DefaultMaxDepth      = 64
)

// DefaultLimits returns the limits used by Parse and Tokenize.
func DefaultLimits() Limits {
	return Limits{
		MaxInputBytes: DefaultMaxInputBytes,
		MaxTokens:     DefaultMaxTokens,
		MaxStatements: DefaultMaxStatements,
		MaxDepth:      DefaultMaxDepth,
	}
}

func exceeds(n, max int) bool {
	return max > 0 && n > max
}
