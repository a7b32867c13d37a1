package reconciler

import (
	"os"
	"path/filepath"
	"testing"

	"printgrab/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRelocateMovesEverythingAndRewritesPaths(t *testing.T) {
	sourceDir := t.TempDir()
	destDir := filepath.Join(t.TempDir(), "final")

	writeFile(t, filepath.Join(sourceDir, "model.stl"), "solid")
	writeFile(t, filepath.Join(sourceDir, "instructions.pdf"), "pdf")

	recorded := []string{
		filepath.Join(sourceDir, "model.stl"),
		filepath.Join(sourceDir, "instructions.pdf"),
	}

	r := NewReconciler(zerolog.Nop())
	updated := r.Relocate(sourceDir, destDir, recorded)

	assert.ElementsMatch(t, []string{
		filepath.Join(destDir, "model.stl"),
		filepath.Join(destDir, "instructions.pdf"),
	}, updated)

	assert.FileExists(t, filepath.Join(destDir, "model.stl"))
	assert.FileExists(t, filepath.Join(destDir, "instructions.pdf"))
	assert.NoFileExists(t, filepath.Join(sourceDir, "model.stl"))
}

func TestRelocateMissingSourceIsNoOp(t *testing.T) {
	recorded := []string{"/somewhere/model.stl"}

	r := NewReconciler(zerolog.Nop())
	updated := r.Relocate(filepath.Join(t.TempDir(), "missing"), t.TempDir(), recorded)

	assert.Equal(t, recorded, updated)
}

func TestRelocateEmptySourceIsNoOp(t *testing.T) {
	recorded := []string{"/somewhere/model.stl"}

	r := NewReconciler(zerolog.Nop())
	updated := r.Relocate(t.TempDir(), t.TempDir(), recorded)

	assert.Equal(t, recorded, updated)
}

func TestRelocatePartialFailureOmitsFailedEntry(t *testing.T) {
	sourceDir := t.TempDir()
	destDir := t.TempDir()

	writeFile(t, filepath.Join(sourceDir, "good.stl"), "solid")
	writeFile(t, filepath.Join(sourceDir, "blocked.stl"), "solid")

	// A directory squatting on the destination name makes that single move
	// fail while the rest proceed.
	require.NoError(t, os.Mkdir(filepath.Join(destDir, "blocked.stl"), 0755))

	recorded := []string{
		filepath.Join(sourceDir, "good.stl"),
		filepath.Join(sourceDir, "blocked.stl"),
	}

	r := NewReconciler(zerolog.Nop())
	updated := r.Relocate(sourceDir, destDir, recorded)

	// Only the path that actually landed in destDir survives.
	assert.Equal(t, []string{filepath.Join(destDir, "good.stl")}, updated)
	assert.FileExists(t, filepath.Join(destDir, "good.stl"))
}

func TestRelocateDropsRecordedPathsWithNoFile(t *testing.T) {
	sourceDir := t.TempDir()
	destDir := t.TempDir()

	writeFile(t, filepath.Join(sourceDir, "present.stl"), "solid")

	// The record claims a file that never made it to disk.
	recorded := []string{
		filepath.Join(sourceDir, "present.stl"),
		filepath.Join(sourceDir, "phantom.stl"),
	}

	r := NewReconciler(zerolog.Nop())
	updated := r.Relocate(sourceDir, destDir, recorded)

	assert.Equal(t, []string{filepath.Join(destDir, "present.stl")}, updated)
}

func TestRelocateRecordUpdatesBothLists(t *testing.T) {
	tempFilesDir := t.TempDir()
	tempImagesDir := t.TempDir()
	finalDir := t.TempDir()
	finalFilesDir := filepath.Join(finalDir, "files")
	finalImagesDir := filepath.Join(finalDir, "images")

	writeFile(t, filepath.Join(tempFilesDir, "model.stl"), "solid")
	writeFile(t, filepath.Join(tempImagesDir, "image_1.jpg"), "jpeg")

	record := models.NewModelRecord("https://www.printables.com/model/123-test")
	record.DownloadedFilePaths = []string{filepath.Join(tempFilesDir, "model.stl")}
	record.DownloadedImagePaths = []string{filepath.Join(tempImagesDir, "image_1.jpg")}

	r := NewReconciler(zerolog.Nop())
	r.RelocateRecord(record, tempFilesDir, finalFilesDir, tempImagesDir, finalImagesDir)

	assert.Equal(t, []string{filepath.Join(finalFilesDir, "model.stl")}, record.DownloadedFilePaths)
	assert.Equal(t, []string{filepath.Join(finalImagesDir, "image_1.jpg")}, record.DownloadedImagePaths)
	assert.FileExists(t, filepath.Join(finalFilesDir, "model.stl"))
	assert.FileExists(t, filepath.Join(finalImagesDir, "image_1.jpg"))
}
