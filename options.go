package valserde

// Options tune Decode and Encode. The zero value is ready to use.
type Options struct {
	// MaxDepth bounds how deeply values may nest. Decode and Encode fail with
	// ErrDepthExceeded past it. 0 means no limit; recursion is then bounded
	// only by the nesting of the type itself.
	MaxDepth int
}
