package export

import (
	"encoding/json"
	"io"

	"github.com/ocxtools/opencode-recall/internal"
)

// JSONExporter exports transcripts in JSON format (pretty-printed)
type JSONExporter struct{}

// Export writes the full transcript envelope as indented JSON
func (e *JSONExporter) Export(transcript *internal.TranscriptResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(transcript)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
