package transcriber

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	// MaxFileSize is the largest file the Whisper API accepts directly (25MB).
	MaxFileSize = 25 * 1024 * 1024

	// ChunkDuration is the duration of each chunk.
	ChunkDuration = 10 * time.Minute

	// OverlapDuration is the overlap between adjacent chunks.
	OverlapDuration = 10 * time.Second
)

// Chunk is one piece of a split recording.
type Chunk struct {
	Index    int
	FilePath string
	Start    time.Duration
	End      time.Duration
}

// Chunker splits recordings too large for the transcription API into
// overlapping pieces via ffmpeg.
type Chunker struct {
	maxFileSize     int64
	chunkDuration   time.Duration
	overlapDuration time.Duration
}

// NewChunker creates a Chunker with default settings.
func NewChunker() *Chunker {
	return &Chunker{
		maxFileSize:     MaxFileSize,
		chunkDuration:   ChunkDuration,
		overlapDuration: OverlapDuration,
	}
}

// HasFFmpeg checks if ffmpeg is available on PATH.
func (c *Chunker) HasFFmpeg() bool {
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// NeedsChunking reports whether the file exceeds the API size limit.
func (c *Chunker) NeedsChunking(filePath string) (bool, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
	return info.Size() > c.maxFileSize, nil
}

// Split cuts the recording into overlapping chunks next to the source file.
func (c *Chunker) Split(filePath string) ([]Chunk, error) {
	duration, err := c.audioDuration(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio duration: %w", err)
	}

	ext := filepath.Ext(filePath)
	base := strings.TrimSuffix(filepath.Base(filePath), ext)
	chunkDir := filepath.Join(filepath.Dir(filePath), base+".chunks")
	if err := os.MkdirAll(chunkDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create chunk directory: %w", err)
	}

	stride := c.chunkDuration - c.overlapDuration

	var chunks []Chunk
	for i := 0; ; i++ {
		start := time.Duration(i) * stride
		if start >= duration {
			break
		}
		end := start + c.chunkDuration
		if end > duration {
			end = duration
		}

		chunkPath := filepath.Join(chunkDir, fmt.Sprintf("chunk_%03d%s", i+1, ext))
		if err := c.extractChunk(filePath, chunkPath, start, end-start); err != nil {
			return nil, fmt.Errorf("failed to extract chunk %d: %w", i+1, err)
		}

		chunks = append(chunks, Chunk{
			Index:    i + 1,
			FilePath: chunkPath,
			Start:    start,
			End:      end,
		})
	}

	return chunks, nil
}

// MergeResults joins chunk transcripts into one Result, trimming text that
// repeats across the overlap between adjacent chunks.
func (c *Chunker) MergeResults(results []*Result) (*Result, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("no results to merge")
	}
	if len(results) == 1 {
		return results[0], nil
	}

	merged := &Result{Language: results[0].Language}

	var text strings.Builder
	for i, r := range results {
		part := r.Text
		if i > 0 {
			part = trimOverlap(results[i-1].Text, part)
		}
		if text.Len() > 0 {
			text.WriteString(" ")
		}
		text.WriteString(strings.TrimSpace(part))
		merged.Duration += r.Duration
	}
	merged.Text = text.String()

	return merged, nil
}

// Cleanup removes the temporary chunk directory.
func (c *Chunker) Cleanup(chunks []Chunk) {
	if len(chunks) == 0 {
		return
	}
	os.RemoveAll(filepath.Dir(chunks[0].FilePath))
}

// trimOverlap drops leading words of curr that repeat the tail of prev.
// Whisper may transcribe the overlap window in both chunks.
func trimOverlap(prev, curr string) string {
	prevWords := strings.Fields(prev)
	currWords := strings.Fields(curr)
	if len(prevWords) < 5 || len(currWords) < 5 {
		return curr
	}

	matchLen := min(20, len(prevWords))
	suffix := prevWords[len(prevWords)-matchLen:]

	for i := 0; i < min(matchLen, len(currWords)); i++ {
		match := true
		for j := 0; j < min(3, matchLen-i); j++ {
			if i+j >= len(currWords) || suffix[i+j] != currWords[j] {
				match = false
				break
			}
		}
		if match {
			skip := matchLen - i
			if skip < len(currWords) {
				return strings.Join(currWords[skip:], " ")
			}
		}
	}

	return curr
}

// audioDuration reads the duration via ffprobe.
func (c *Chunker) audioDuration(filePath string) (time.Duration, error) {
	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		filePath,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var seconds float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(output)), "%f", &seconds); err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// extractChunk cuts a portion of audio with ffmpeg (stream copy, no re-encode).
func (c *Chunker) extractChunk(input, output string, start, duration time.Duration) error {
	cmd := exec.Command("ffmpeg",
		"-y",
		"-ss", formatDuration(start),
		"-i", input,
		"-t", formatDuration(duration),
		"-c", "copy",
		output,
	)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

// formatDuration formats a duration for ffmpeg (HH:MM:SS.mmm).
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := d.Seconds() - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, seconds)
}
