package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pivotcast/internal/logger"
)

// Generator drives a Synthesizer over a full script: sanitize, chunk,
// synthesize sequentially, reassemble.
type Generator struct {
	synth Synthesizer
}

// NewGenerator wraps a speech provider with the shared chunking pipeline.
func NewGenerator(synth Synthesizer) *Generator {
	return &Generator{synth: synth}
}

// Generate narrates the script into outputPath and returns the path of the
// file actually produced. On reassembly failure that may be the first
// chunk's file rather than outputPath.
func (g *Generator) Generate(ctx context.Context, script, outputPath string) (string, error) {
	text := SanitizeForSpeech(script)
	if text == "" {
		return "", fmt.Errorf("script is empty after sanitization")
	}

	spec := g.synth.Spec()
	var chunks []string
	if spec.SingleCallLimit > 0 && len(text) <= spec.SingleCallLimit {
		chunks = []string{text}
	} else {
		chunks = SplitIntoChunks(text, spec.MaxChunkChars)
	}
	logger.Info("Synthesizing audio",
		"provider", g.synth.Name(),
		"chars", len(text),
		"chunks", len(chunks))

	workDir := filepath.Dir(outputPath)
	ext := filepath.Ext(outputPath)
	if ext == "" {
		ext = ".mp3"
	}

	var chunkPaths []string
	for i, chunk := range chunks {
		if i > 0 && spec.InterCallDelay > 0 {
			time.Sleep(spec.InterCallDelay)
		}

		data, err := g.synth.SynthesizeChunk(ctx, chunk)
		if err != nil {
			logger.Warn("Chunk synthesis failed, skipping",
				"chunk", i+1, "of", len(chunks), "error", err.Error())
			continue
		}

		path := filepath.Join(workDir, fmt.Sprintf("chunk_%03d%s", i+1, ext))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return "", fmt.Errorf("failed to write chunk %d: %w", i+1, err)
		}
		chunkPaths = append(chunkPaths, path)
		logger.Debug("Chunk synthesized", "chunk", i+1, "bytes", len(data))
	}

	if len(chunkPaths) == 0 {
		return "", fmt.Errorf("all %d synthesis calls failed", len(chunks))
	}

	return Reassemble(chunkPaths, outputPath, spec.HeaderSkipBytes)
}
