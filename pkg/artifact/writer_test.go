package artifact

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2025, 6, 1, 8, 15, 30, 123000000, time.UTC)

func TestFileName(t *testing.T) {
	a := Artifact{Kind: "modify", SessionID: "ab/../cd", CreatedAt: at}
	assert.Equal(t, "modify_ab-cd_20250601T081530123000000.txt", FileName(a))

	assert.Equal(t, "none_none_20250601T081530123000000.txt", FileName(Artifact{CreatedAt: at}))
}

func TestRender(t *testing.T) {
	a := Artifact{
		Kind:      "create",
		SessionID: "0123456789abcdef",
		Metadata:  map[string]string{"main_subject": "Physics", "note": "two\nlines"},
		Content:   "## Objectives\nA",
		CreatedAt: at,
	}

	want := "created_at: 2025-06-01T08:15:30Z\n" +
		"kind: create\n" +
		"main_subject: Physics\n" +
		"note: two lines\n" +
		"session_id: 0123456789abcdef\n" +
		"\n" +
		"## Objectives\nA\n"
	assert.Equal(t, want, Render(a))
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outputs")
	w := NewWriter(dir)

	path, err := w.Write(Artifact{Kind: "media", SessionID: "s1", Content: "q", CreatedAt: at})
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: media\n")
	assert.Contains(t, string(data), "\n\nq\n")
}
