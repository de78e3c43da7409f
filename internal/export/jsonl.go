package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ocxtools/opencode-recall/internal"
)

// JSONLExporter exports transcripts in JSONL format (one entry per line)
type JSONLExporter struct{}

// Export writes one JSON object per transcript entry
func (e *JSONLExporter) Export(transcript *internal.TranscriptResult, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, entry := range transcript.Entries {
		obj := map[string]interface{}{
			"role": entry.Role,
			"text": entry.Text,
			"time": entry.TimeText,
		}
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode entry: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
