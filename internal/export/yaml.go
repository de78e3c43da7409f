package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ocxtools/opencode-recall/internal"
)

// YAMLExporter exports transcripts in YAML format
type YAMLExporter struct{}

// Export writes the full transcript envelope as YAML
func (e *YAMLExporter) Export(transcript *internal.TranscriptResult, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(transcript)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
