package file

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadFile(t *testing.T) {
	tests := []struct {
		name       string
		inputBytes []byte
		status     int
		maxBytes   int64
		wantErr    bool
	}{
		{
			name:       "success",
			inputBytes: []byte("test\n"),
			status:     http.StatusOK,
			wantErr:    false,
		},
		{
			name:       "within limit",
			inputBytes: []byte("test\n"),
			status:     http.StatusOK,
			maxBytes:   5,
			wantErr:    false,
		},
		{
			name:       "over limit",
			inputBytes: []byte("test\n"),
			status:     http.StatusOK,
			maxBytes:   4,
			wantErr:    true,
		},
		{
			name:       "not found",
			inputBytes: []byte("not found"),
			status:     http.StatusNotFound,
			wantErr:    true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, err := w.Write(tc.inputBytes)
				assert.NoError(t, err)
			}))
			defer srv.Close()

			res, err := DownloadFile(t.Context(), srv.URL, tc.maxBytes)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.inputBytes, res)
			}
		})
	}
}

func TestReadImage(t *testing.T) {
	dir := t.TempDir()

	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, image.NewGray(image.Rect(0, 0, 2, 2))))

	tests := []struct {
		name     string
		fileName string
		wantMIME string
	}{
		{name: "by extension", fileName: "pixel.png", wantMIME: "image/png"},
		{name: "upper case extension", fileName: "PIXEL.PNG", wantMIME: "image/png"},
		{name: "sniffed without extension", fileName: "pixel", wantMIME: "image/png"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.fileName)
			require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

			data, mimeType, err := ReadImage(path)
			require.NoError(t, err)
			assert.Equal(t, buf.Bytes(), data)
			assert.Equal(t, tc.wantMIME, mimeType)
		})
	}

	_, _, err := ReadImage(filepath.Join(dir, "missing.jpg"))
	require.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	tests := []struct {
		name     string
		existing []byte
		content  []byte
	}{
		{
			name:    "new file",
			content: []byte("test\n"),
		},
		{
			name:     "replaces existing file",
			existing: []byte("old content"),
			content:  []byte("new\n"),
		},
		{
			name:    "empty file",
			content: []byte(""),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "compressed_out.jpg")
			if tc.existing != nil {
				require.NoError(t, os.WriteFile(path, tc.existing, 0o600))
			}

			require.NoError(t, WriteFile(path, tc.content))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tc.content, got)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temp file must not be left behind")
		})
	}
}

func TestWriteFileMissingDirectory(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "out.jpg"), []byte("x"))
	require.Error(t, err)
}
