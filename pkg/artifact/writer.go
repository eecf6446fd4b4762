// Package artifact exports lesson actions as plain text files.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Artifact is one exported document.
type Artifact struct {
	Kind      string
	SessionID string
	Metadata  map[string]string
	Content   string
	CreatedAt time.Time
}

// Writer writes artifacts under a directory, creating it on first use.
type Writer struct {
	dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

func (w *Writer) Dir() string { return w.dir }

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileName builds "<kind>_<session>_<timestamp>.txt" with unsafe runes replaced.
func FileName(a Artifact) string {
	ts := a.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	parts := []string{safe(a.Kind), safe(a.SessionID), ts.UTC().Format("20060102T150405.000000000")}
	name := strings.Join(parts, "_")
	return strings.ReplaceAll(name, ".", "") + ".txt"
}

func safe(s string) string {
	s = unsafeChars.ReplaceAllString(s, "-")
	if s == "" {
		return "none"
	}
	return s
}

// Render produces the file body: sorted "key: value" header lines, a blank
// line, then the content.
func Render(a Artifact) string {
	header := map[string]string{
		"kind":       a.Kind,
		"session_id": a.SessionID,
	}
	if !a.CreatedAt.IsZero() {
		header["created_at"] = a.CreatedAt.UTC().Format(time.RFC3339)
	}
	for k, v := range a.Metadata {
		header[k] = v
	}

	keys := make([]string, 0, len(header))
	for k := range header {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		// keep each header on one line
		v := strings.ReplaceAll(header[k], "\n", " ")
		sb.WriteString(fmt.Sprintf("%s: %s\n", k, v))
	}
	sb.WriteString("\n")
	sb.WriteString(a.Content)
	if !strings.HasSuffix(a.Content, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}

// Write persists a and returns the file path.
func (w *Writer) Write(a Artifact) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	path := filepath.Join(w.dir, FileName(a))
	if err := os.WriteFile(path, []byte(Render(a)), 0o644); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", path, err)
	}
	return path, nil
}
