package cloudinary

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	cldconfig "github.com/cloudinary/cloudinary-go/v2/config"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/photostore"
)

const (
	defaultAPIBase      = "https://api.cloudinary.com"
	defaultDeliveryBase = "https://res.cloudinary.com"
	resourceType        = "image"
)

type Config struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string
}

// CloudinaryPhotoStore uploads images to Cloudinary. Storage keys are public
// ids. A signed upload is tried first and an unsigned preset upload is used
// when it is rejected.
type CloudinaryPhotoStore struct {
	cfg          Config
	apiBase      string
	deliveryBase string
	client       *http.Client
	logger       *slog.Logger
}

type Option func(*CloudinaryPhotoStore)

func WithBaseURLs(apiBase, deliveryBase string) Option {
	return func(s *CloudinaryPhotoStore) {
		s.apiBase = strings.TrimSuffix(apiBase, "/")
		s.deliveryBase = strings.TrimSuffix(deliveryBase, "/")
	}
}

// WithHTTPClient sets the client used to download delivered images.
func WithHTTPClient(c *http.Client) Option {
	return func(s *CloudinaryPhotoStore) { s.client = c }
}

func NewCloudinaryPhotoStore(cfg Config, logger *slog.Logger, opts ...Option) *CloudinaryPhotoStore {
	s := &CloudinaryPhotoStore{
		cfg:          cfg,
		apiBase:      defaultAPIBase,
		deliveryBase: defaultDeliveryBase,
		client:       &http.Client{Timeout: 60 * time.Second},
		logger:       logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *CloudinaryPhotoStore) signed() bool {
	return s.cfg.APIKey != "" && s.cfg.APISecret != ""
}

// api builds an SDK client pointed at the configured upload endpoint.
func (s *CloudinaryPhotoStore) api() (*cld.Cloudinary, error) {
	conf, err := cldconfig.NewFromParams(s.cfg.CloudName, s.cfg.APIKey, s.cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	conf.API.UploadPrefix = s.apiBase
	c, err := cld.NewFromConfiguration(*conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return c, nil
}

func (s *CloudinaryPhotoStore) Save(ctx context.Context, folder, mimeType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	c, err := s.api()
	if err != nil {
		return "", err
	}
	params := uploader.UploadParams{
		Folder:       photostore.CleanFolder(folder),
		ResourceType: resourceType,
	}

	if s.signed() {
		res, err := c.Upload.Upload(ctx, bytes.NewReader(data), params)
		id, err := uploadedID(res, err)
		if err == nil {
			return id, nil
		}
		s.logger.Warn("signed cloudinary upload failed, trying unsigned", "error", err, "mime_type", mimeType)
	}

	res, err := c.Upload.UnsignedUpload(ctx, bytes.NewReader(data), s.cfg.UploadPreset, params)
	id, err := uploadedID(res, err)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	return id, nil
}

// uploadedID folds the SDK's transport error and the error reported in the
// response body into one.
func uploadedID(res *uploader.UploadResult, err error) (string, error) {
	switch {
	case err != nil:
		return "", err
	case res == nil:
		return "", fmt.Errorf("empty cloudinary response")
	case res.Error.Message != "":
		return "", fmt.Errorf("cloudinary: %s", res.Error.Message)
	case res.PublicID == "":
		return "", fmt.Errorf("cloudinary response has no public_id")
	}
	return res.PublicID, nil
}

func (s *CloudinaryPhotoStore) Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL(storageKey), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		closeWithLog(resp.Body, s.logger)
		return nil, "", photostore.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		closeWithLog(resp.Body, s.logger)
		return nil, "", fmt.Errorf("cloudinary returned status %d", resp.StatusCode)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// Delete destroys the image. It needs API credentials.
func (s *CloudinaryPhotoStore) Delete(ctx context.Context, storageKey string) error {
	if !s.signed() {
		return fmt.Errorf("cloudinary delete requires API credentials")
	}
	c, err := s.api()
	if err != nil {
		return err
	}
	res, err := c.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     storageKey,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("failed to destroy image: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary: %s", res.Error.Message)
	}
	switch res.Result {
	case "ok":
		return nil
	case "not found":
		return photostore.ErrNotFound
	default:
		return fmt.Errorf("cloudinary destroy returned %q", res.Result)
	}
}

func (s *CloudinaryPhotoStore) URL(storageKey string) string {
	return fmt.Sprintf("%s/%s/image/upload/%s", s.deliveryBase, url.PathEscape(s.cfg.CloudName), storageKey)
}

// Key recovers the public id from a delivery URL issued by URL.
func (s *CloudinaryPhotoStore) Key(u string) (string, bool) {
	return strings.CutPrefix(u, fmt.Sprintf("%s/%s/image/upload/", s.deliveryBase, url.PathEscape(s.cfg.CloudName)))
}

func closeWithLog(c io.Closer, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Warn("failed to close response body", "error", err)
	}
}
