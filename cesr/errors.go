package cesr

import "errors"

// ErrParse and ErrColdStart are sentinel errors this package wraps into its
// returned errors with fmt.Errorf("...: %w", ...) so callers (streaming
// package) can recognize them with errors.Is and translate them into the
// shared keeper.Error taxonomy.
var (
	ErrParse     = errors.New("cesr: parse error")
	ErrColdStart = errors.New("cesr: cold start error")
)
