package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"eterna_server/lib"
	"eterna_server/structs"

	gcs "cloud.google.com/go/storage"
	"github.com/MonkyMars/gecho"
	"github.com/oklog/ulid/v2"
	"google.golang.org/api/option"
)

const sniffLen = 512

var errStorageUnavailable = errors.New("object storage is not configured")

// ObjectWriter stores one object in a bucket
type ObjectWriter interface {
	WriteObject(ctx context.Context, bucket, object, contentType string, r io.Reader) error
}

// gcsWriter writes objects to Cloud Storage
type gcsWriter struct {
	client *gcs.Client
}

func (g *gcsWriter) WriteObject(ctx context.Context, bucket, object, contentType string, r io.Reader) error {
	w := g.client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize object: %w", err)
	}
	return nil
}

type UploadService struct {
	logger *gecho.Logger
	config *structs.StorageConfig
	writer ObjectWriter
	client *gcs.Client
	now    func() time.Time
}

// NewUploadService connects to Cloud Storage. Without credentials the service
// still starts and every upload is reported as skipped.
func NewUploadService(logger *gecho.Logger, cfg *structs.Config) *UploadService {
	us := &UploadService{
		logger: logger,
		config: cfg.Storage,
		now:    time.Now,
	}

	var opts []option.ClientOption
	if cfg.Storage.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Storage.CredentialsFile))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		logger.Warn("Object storage unavailable, uploads are disabled", gecho.Field("error", err))
		return us
	}

	us.client = client
	us.writer = &gcsWriter{client: client}
	return us
}

// Close releases the storage client
func (us *UploadService) Close() error {
	if us.client != nil {
		return us.client.Close()
	}
	return nil
}

// Upload stores each file and appends its public URL to existing. A file that
// fails is logged and skipped and the rest of the batch continues; nothing
// already stored is rolled back. maxImages > 0 caps how many uploads are added;
// existing URLs are never dropped.
func (us *UploadService) Upload(ctx context.Context, existing []string, files []*multipart.FileHeader, maxImages int) *structs.UploadResult {
	if maxImages <= 0 {
		maxImages = us.config.MaxImages
	}

	uploaded := make([]string, 0, len(files))
	skipped := 0

	for _, fh := range files {
		if maxImages > 0 && len(existing)+len(uploaded) >= maxImages {
			skipped++
			continue
		}

		url, err := us.uploadOne(ctx, fh)
		if err != nil {
			us.logger.Error("Failed to upload image",
				gecho.Field("file", fh.Filename),
				gecho.Field("error", err),
			)
			skipped++
			continue
		}
		uploaded = append(uploaded, url)
	}

	return &structs.UploadResult{
		Images:   lib.AppendImages(existing, uploaded, maxImages),
		Uploaded: len(uploaded),
		Skipped:  skipped,
	}
}

func (us *UploadService) uploadOne(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if us.writer == nil {
		return "", errStorageUnavailable
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	reader := bufio.NewReaderSize(f, sniffLen)
	head, err := reader.Peek(sniffLen)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	object := us.ObjectName(fh.Filename, contentType)

	if us.config.UploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, us.config.UploadTimeout)
		defer cancel()
	}

	if err := us.writer.WriteObject(ctx, us.config.Bucket, object, contentType, reader); err != nil {
		return "", err
	}

	us.logger.Debug("Image uploaded", gecho.Field("object", object), gecho.Field("size", fh.Size))
	return us.PublicURL(object), nil
}

// ObjectName builds "<random>_<unix ms>.<ext>". The extension comes from the
// original file name and falls back to the detected content type.
func (us *UploadService) ObjectName(filename, contentType string) string {
	now := us.now()
	token := strings.ToLower(ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String())

	return fmt.Sprintf("%s_%d.%s", token, now.UnixMilli(), fileExtension(filename, contentType))
}

// PublicURL is the object's address under the configured public base
func (us *UploadService) PublicURL(object string) string {
	return strings.TrimRight(us.config.PublicBaseURL, "/") + "/" + us.config.Bucket + "/" + object
}

func fileExtension(filename, contentType string) string {
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."); ext != "" {
		return ext
	}

	switch contentType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "image/bmp":
		return "bmp"
	}
	return "bin"
}
