package rag

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestListDocumentFilesFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.md", "b")
	writeFile(t, dir, "a.txt", "a")
	writeFile(t, dir, "c.JSON", "{}")
	writeFile(t, dir, "image.png", "png")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.md"), 0o755))

	files, err := ListDocumentFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.md", "c.JSON"}, files)
}

func TestListDocumentFilesMissingDir(t *testing.T) {
	_, err := ListDocumentFiles(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadDocumentsNormalizesAndSkipsEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cafe.txt", "café menu\n")
	writeFile(t, dir, "blank.md", "  \n\n ")

	docs, err := LoadDocuments(context.Background(), dir, []string{"blank.md", "cafe.txt"})
	require.NoError(t, err)
	if assert.Len(t, docs, 1) {
		assert.Equal(t, "café menu", docs[0].Content)
		assert.Equal(t, "cafe.txt", docs[0].Name)
		assert.Len(t, docs[0].ID, 16)
	}
}

func TestLoadDocumentsExtractsHTML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "guide.html", `<html><head><title>Flashing Guide</title></head><body>
<article><h1>Flashing Guide</h1>
<p>Always verify the firmware checksum before flashing a new BIOS image onto a production board.</p>
<p>Keep the recovery jumper accessible so that a failed update can be rolled back without opening the chassis.</p>
<p>Record every release in the team changelog together with the board revision and the tester name.</p>
</article></body></html>`)

	docs, err := LoadDocuments(context.Background(), dir, []string{"guide.html"})
	require.NoError(t, err)
	if assert.Len(t, docs, 1) {
		assert.Contains(t, docs[0].Content, "firmware checksum")
		assert.NotContains(t, docs[0].Content, "<p>")
	}
}

func TestLoadDocumentsHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadDocuments(ctx, dir, []string{"a.txt"})
	assert.ErrorIs(t, err, context.Canceled)
}
