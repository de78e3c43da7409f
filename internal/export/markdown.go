package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/ocxtools/opencode-recall/internal"
)

// MarkdownExporter exports transcripts in Markdown format
type MarkdownExporter struct{}

// Export writes the transcript as a readable Markdown document
func (e *MarkdownExporter) Export(transcript *internal.TranscriptResult, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Session %s\n\n", transcript.SessionID)

	if meta := transcript.Session; meta != nil {
		if meta.Title != "" {
			_, _ = fmt.Fprintf(w, "**Title:** %s  \n", meta.Title)
		}
		if meta.Directory != "" {
			_, _ = fmt.Fprintf(w, "**Directory:** %s  \n", meta.Directory)
		}
		if meta.ProjectName != "" {
			_, _ = fmt.Fprintf(w, "**Project:** %s  \n", meta.ProjectName)
		}
		if meta.Created != "" {
			_, _ = fmt.Fprintf(w, "**Created:** %s  \n", meta.Created)
		}
	}
	_, _ = fmt.Fprintf(w, "**Entries:** %d\n\n", len(transcript.Entries))

	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, entry := range transcript.Entries {
		timestamp := ""
		if entry.TimeText != "" {
			timestamp = fmt.Sprintf(" (%s)", entry.TimeText)
		}

		text := escapeMarkdown(entry.Text)

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", entry.Role, timestamp, text)

		if i < len(transcript.Entries)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// escapeMarkdown escapes markdown emphasis outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
