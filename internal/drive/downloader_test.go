package drive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	folders  map[string][]*File
	contents map[string]string
}

func (f *fakeSource) ListFiles(ctx context.Context, folderID string) ([]*File, error) {
	return f.folders[folderID], nil
}

func (f *fakeSource) DownloadFile(ctx context.Context, file *File, w io.Writer) error {
	_, err := io.WriteString(w, f.contents[file.ID])
	return err
}

func TestDownloadDatasets(t *testing.T) {
	src := &fakeSource{
		folders: map[string][]*File{
			"root-id": {
				{ID: "1", Name: "skus.csv", MimeType: "text/csv"},
				{ID: "2", Name: "notes.pdf", MimeType: "application/pdf"},
				{ID: "north", Name: "north", MimeType: folderMimeType},
			},
			"north": {
				{ID: "3", Name: "skus", MimeType: spreadsheetMimeType},
				{ID: "4", Name: "suppliers.CSV", MimeType: "text/csv"},
			},
		},
		contents: map[string]string{"1": "root skus", "3": "sheet", "4": "suppliers"},
	}
	dir := t.TempDir()

	paths, err := NewDownloader(src).DownloadDatasets(context.Background(), DownloadOptions{
		FolderID:    "root-id",
		DownloadDir: dir,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "north", "skus.xlsx"),
		filepath.Join(dir, "north", "suppliers.CSV"),
		filepath.Join(dir, "skus.csv"),
	}, paths)

	data, err := os.ReadFile(filepath.Join(dir, "north", "skus.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "sheet", string(data))
}

func TestDownloadDatasetsRequiresDir(t *testing.T) {
	_, err := NewDownloader(&fakeSource{}).DownloadDatasets(context.Background(), DownloadOptions{})
	assert.Error(t, err)
}

func TestLocalName(t *testing.T) {
	tests := []struct {
		file *File
		want string
		ok   bool
	}{
		{&File{Name: "skus.csv"}, "skus.csv", true},
		{&File{Name: "factories.xlsx"}, "factories.xlsx", true},
		{&File{Name: "Suppliers Sheet", MimeType: spreadsheetMimeType}, "Suppliers Sheet.xlsx", true},
		{&File{Name: "../../etc/skus.csv"}, "skus.csv", true},
		{&File{Name: "image.png"}, "", false},
		{&File{Name: "folder", MimeType: folderMimeType}, "", false},
	}
	for _, tt := range tests {
		got, ok := localName(tt.file)
		assert.Equal(t, tt.ok, ok, tt.file.Name)
		assert.Equal(t, tt.want, got, tt.file.Name)
	}
}
