package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"social-backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestLocalStorage_UploadFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:5000/uploads/")
	require.NoError(t, err)

	url, err := s.UploadFile(context.Background(), fileHeader(t, "cat.png", []byte("png-bytes")), "images/u1/abc.png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/uploads/images/u1/abc.png", url)

	stored, err := os.ReadFile(filepath.Join(dir, "images", "u1", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), stored)
}

func TestNew(t *testing.T) {
	s, err := New(context.Background(), config.Config{StorageDriver: "local", LocalStoragePath: t.TempDir(), BackendURL: "http://x"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = New(context.Background(), config.Config{StorageDriver: "ftp"})
	assert.Error(t, err)

	_, err = New(context.Background(), config.Config{StorageDriver: "s3"})
	assert.Error(t, err)
}
