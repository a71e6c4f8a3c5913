package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"eterna_server/config"
	"eterna_server/structs"

	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type recordingWriter struct {
	objects map[string]string // object -> content type
	failOn  string
}

func (w *recordingWriter) WriteObject(ctx context.Context, bucket, object, contentType string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if w.failOn != "" && bytes.Contains(data, []byte(w.failOn)) {
		return errors.New("bucket rejected object")
	}
	w.objects[object] = contentType
	return nil
}

type testFile struct {
	name    string
	content []byte
}

func multipartFiles(t *testing.T, files ...testFile) []*multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, f := range files {
		fw, err := mw.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/uploads", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["files"]
}

func newTestUploadService(writer ObjectWriter) *UploadService {
	return &UploadService{
		logger: config.NewLogger(false),
		config: &structs.StorageConfig{
			Bucket:        "product-images",
			PublicBaseURL: "https://storage.googleapis.com/",
		},
		writer: writer,
		now:    func() time.Time { return time.UnixMilli(1717200000000) },
	}
}

func TestUploadAppendsAndSkipsFailures(t *testing.T) {
	writer := &recordingWriter{objects: map[string]string{}, failOn: "broken"}
	us := newTestUploadService(writer)

	files := multipartFiles(t,
		testFile{name: "Front.PNG", content: pngHeader},
		testFile{name: "notes.txt", content: []byte("plain text is not an image")},
		testFile{name: "back.png", content: append(append([]byte{}, pngHeader...), []byte("broken")...)},
		testFile{name: "side", content: pngHeader},
	)

	result := us.Upload(context.Background(), []string{"https://cdn/existing.jpg"}, files, 0)

	require.Equal(t, 2, result.Uploaded)
	require.Equal(t, 2, result.Skipped)
	require.Len(t, result.Images, 3)
	require.Equal(t, "https://cdn/existing.jpg", result.Images[0])

	pattern := regexp.MustCompile(`^https://storage\.googleapis\.com/product-images/[0-9a-z]{26}_1717200000000\.(png)$`)
	require.Regexp(t, pattern, result.Images[1])
	require.Regexp(t, pattern, result.Images[2])

	for _, contentType := range writer.objects {
		require.Equal(t, "image/png", contentType)
	}
}

func TestUploadRespectsMaxImages(t *testing.T) {
	us := newTestUploadService(&recordingWriter{objects: map[string]string{}})

	files := multipartFiles(t,
		testFile{name: "a.png", content: pngHeader},
		testFile{name: "b.png", content: pngHeader},
	)

	result := us.Upload(context.Background(), []string{"one.jpg", "two.jpg"}, files, 3)

	require.Equal(t, 1, result.Uploaded)
	require.Equal(t, 1, result.Skipped)
	require.Len(t, result.Images, 3)
}

func TestUploadNeverTrimsExistingImages(t *testing.T) {
	writer := &recordingWriter{objects: map[string]string{}}
	us := newTestUploadService(writer)

	existing := []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}
	result := us.Upload(context.Background(), existing, multipartFiles(t, testFile{name: "e.png", content: pngHeader}), 3)

	require.Equal(t, existing, result.Images)
	require.Equal(t, 0, result.Uploaded)
	require.Equal(t, 1, result.Skipped)
	require.Empty(t, writer.objects)
}

func TestUploadWithoutStorageSkipsEverything(t *testing.T) {
	us := newTestUploadService(nil)

	result := us.Upload(context.Background(), nil, multipartFiles(t, testFile{name: "a.png", content: pngHeader}), 0)

	require.Equal(t, 0, result.Uploaded)
	require.Equal(t, 1, result.Skipped)
	require.Empty(t, result.Images)
}

func TestFileExtension(t *testing.T) {
	require.Equal(t, "jpeg", fileExtension("IMG_001.JPEG", "image/jpeg"))
	require.Equal(t, "jpg", fileExtension("camera", "image/jpeg"))
	require.Equal(t, "webp", fileExtension("", "image/webp"))
}
