package audio

import (
	"fmt"
	"os"

	"pivotcast/internal/logger"
)

// Reassemble joins per-chunk audio files into outputPath. A single chunk is
// moved as-is. For multiple chunks, every chunk after the first has its
// leading headerSkipBytes dropped so independent encoder headers are not
// embedded mid-stream.
//
// On concatenation failure the first chunk's path is returned and all chunk
// files are retained for manual recovery. Chunk files are deleted only after
// the output file verifiably exists.
func Reassemble(chunkPaths []string, outputPath string, headerSkipBytes int) (string, error) {
	if len(chunkPaths) == 0 {
		return "", fmt.Errorf("no audio chunks to reassemble")
	}
	if headerSkipBytes < 0 {
		return "", fmt.Errorf("invalid header skip of %d bytes", headerSkipBytes)
	}

	if len(chunkPaths) == 1 {
		if err := os.Rename(chunkPaths[0], outputPath); err != nil {
			return chunkPaths[0], fmt.Errorf("failed to move audio file: %w", err)
		}
		return outputPath, nil
	}

	if err := concatenate(chunkPaths, outputPath, headerSkipBytes); err != nil {
		logger.Error("Audio reassembly failed, returning first chunk only", err,
			"chunks", len(chunkPaths))
		return chunkPaths[0], nil
	}

	if _, err := os.Stat(outputPath); err != nil {
		logger.Error("Reassembled file missing, returning first chunk only", err)
		return chunkPaths[0], nil
	}
	for _, p := range chunkPaths {
		if err := os.Remove(p); err != nil {
			logger.Warn("Failed to remove chunk file", "path", p, "error", err.Error())
		}
	}
	return outputPath, nil
}

func concatenate(chunkPaths []string, outputPath string, headerSkipBytes int) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	for i, path := range chunkPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read chunk %d: %w", i+1, err)
		}
		if i > 0 {
			if len(data) <= headerSkipBytes {
				logger.Warn("Chunk smaller than header skip, appending unmodified",
					"chunk", i+1, "bytes", len(data), "skip", headerSkipBytes)
			} else {
				data = data[headerSkipBytes:]
			}
		}
		if _, err := out.Write(data); err != nil {
			return fmt.Errorf("failed to write chunk %d: %w", i+1, err)
		}
	}
	return nil
}
