// Package audio turns a script into a single narrated audio file, chunking
// long text per provider limits and stitching the results back together.
package audio

import (
	"context"
	"time"
)

// ChunkSpec describes a provider's size and pacing constraints. The shared
// chunking and reassembly logic is parameterized entirely by these values.
type ChunkSpec struct {
	// SingleCallLimit is the character count under which the provider can
	// synthesize the whole text in one call. Zero means always chunk.
	SingleCallLimit int
	// MaxChunkChars is the per-chunk ceiling when chunking is in effect.
	MaxChunkChars int
	// HeaderSkipBytes is the provider's container header size, dropped from
	// every chunk after the first during reassembly.
	HeaderSkipBytes int
	// InterCallDelay is the pause between successive synthesis calls.
	InterCallDelay time.Duration
}

// Synthesizer converts one text chunk to raw audio bytes.
type Synthesizer interface {
	SynthesizeChunk(ctx context.Context, text string) ([]byte, error)
	Spec() ChunkSpec
	Name() string
}
