// package formatter renders recommendation listings as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/singme/internal/models"
	"github.com/desertthunder/singme/internal/shared"
	json "github.com/goccy/go-json"
)

// Format names an export encoding.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
	JSON     Format = "json"
)

// ParseFormat resolves a user supplied format name. "md" and "txt" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "text", "txt":
		return Text, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, s)
	}
}

// Extension returns the file extension used for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case Markdown:
		return ".md"
	case Text:
		return ".txt"
	default:
		return "." + string(f)
	}
}

// ExportToCSV converts recommendations to CSV with columns: ID, Name, YouTube Link, Score, Created At
func ExportToCSV(recs []models.Recommendation) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "YouTube Link", "Score", "Created At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range recs {
		record := []string{
			strconv.FormatInt(rec.ID, 10),
			rec.Name,
			rec.YouTubeLink,
			strconv.Itoa(rec.Score),
			formatTime(rec.CreatedAt),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders recommendations as a numbered list of links under title.
func ExportToMarkdown(title string, recs []models.Recommendation) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Recommendations**: %d\n\n", len(recs))

	buf.WriteString("## Songs\n\n")
	for i, rec := range recs {
		fmt.Fprintf(&buf, "%d. [%s](%s) (%+d)\n", i+1, escapeMarkdown(rec.Name), rec.YouTubeLink, rec.Score)
	}

	return buf.Bytes(), nil
}

// ExportToText renders recommendations as plain text.
func ExportToText(title string, recs []models.Recommendation) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", title)
	fmt.Fprintf(&buf, "Recommendations: %d\n\n", len(recs))

	for i, rec := range recs {
		fmt.Fprintf(&buf, "%d. %s (%+d)\n   %s\n", i+1, rec.Name, rec.Score, rec.YouTubeLink)
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders recommendations as an indented JSON array. A nil slice encodes as [].
func ExportToJSON(recs []models.Recommendation) ([]byte, error) {
	if recs == nil {
		recs = []models.Recommendation{}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders recs in format f. title is used by the Markdown and text formats.
func Export(f Format, title string, recs []models.Recommendation) ([]byte, error) {
	switch f {
	case CSV:
		return ExportToCSV(recs)
	case Markdown:
		return ExportToMarkdown(title, recs)
	case Text:
		return ExportToText(title, recs)
	case JSON:
		return ExportToJSON(recs)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, f)
	}
}

// WriteExport renders recs and writes them to path.
//
// Defaults to "recommendations" plus the format's extension in the working directory.
func WriteExport(f Format, title string, recs []models.Recommendation, path string) (string, error) {
	if path == "" {
		path = "recommendations" + f.Extension()
	}

	data, err := Export(f, title, recs)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

var markdownEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
