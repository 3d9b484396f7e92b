// package formatter provides functions to export the watched list and result sets to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/desertthunder/maka/internal/models"
	"github.com/desertthunder/maka/internal/shared"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Formats lists the accepted values in help-text order.
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// ParseFormat validates a user-supplied format name. "md" and "text" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, s)
	}
}

// ExportWatched encodes the watched titles in list order.
func ExportWatched(titles []string, format Format) ([]byte, error) {
	if titles == nil {
		titles = []string{}
	}

	switch format {
	case FormatJSON:
		return shared.MarshalJSON(titles, true)
	case FormatCSV:
		records := make([][]string, 0, len(titles)+1)
		records = append(records, []string{"Position", "Title"})
		for i, title := range titles {
			records = append(records, []string{strconv.Itoa(i + 1), title})
		}
		return writeCSV(records)
	case FormatMarkdown:
		var buf bytes.Buffer
		buf.WriteString("# Watched Movies\n\n")
		if len(titles) == 0 {
			buf.WriteString("_Nothing watched yet._\n")
		}
		for _, title := range titles {
			fmt.Fprintf(&buf, "- %s\n", title)
		}
		return buf.Bytes(), nil
	case FormatText:
		var buf bytes.Buffer
		for _, title := range titles {
			buf.WriteString(title)
			buf.WriteByte('\n')
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, format)
	}
}

// ExportMovies encodes a result set with columns: ID, Title, Release, Poster, Overview
func ExportMovies(movies []models.Movie, format Format) ([]byte, error) {
	if movies == nil {
		movies = []models.Movie{}
	}

	switch format {
	case FormatJSON:
		return shared.MarshalJSON(movies, true)
	case FormatCSV:
		records := make([][]string, 0, len(movies)+1)
		records = append(records, []string{"ID", "Title", "Release", "Poster", "Overview"})
		for _, m := range movies {
			records = append(records, []string{
				strconv.Itoa(m.ID),
				m.Title,
				m.ReleaseDate,
				m.PosterURL(),
				m.Overview,
			})
		}
		return writeCSV(records)
	case FormatMarkdown:
		var buf bytes.Buffer
		for i, m := range movies {
			if i > 0 {
				buf.WriteString("\n")
			}
			fmt.Fprintf(&buf, "## %s\n\n", m.Title)
			if m.HasPoster() {
				fmt.Fprintf(&buf, "![%s](%s)\n\n", m.Title, m.PosterURL())
			}
			fmt.Fprintf(&buf, "**Release Date**: %s\n\n", m.ReleaseLabel())
			fmt.Fprintf(&buf, "%s\n", m.OverviewText())
		}
		return buf.Bytes(), nil
	case FormatText:
		var buf bytes.Buffer
		for i, m := range movies {
			fmt.Fprintf(&buf, "%d. %s (%s) [id %d]\n", i+1, m.Title, m.ReleaseLabel(), m.ID)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnsupportedFormat, format)
	}
}

func writeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile atomically replaces path with data, creating parent directories as needed.
//
// Readers see either the old file or the complete new one.
func WriteFile(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644))
	if err != nil {
		return fmt.Errorf("failed to create pending file: %w", err)
	}
	defer pendingFile.Cleanup()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
