// Package media downloads chat attachments for vision requests.
package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dmetrikx/shiva/internal/ai"
)

// DefaultMaxImageBytes caps a single downloaded image
const DefaultMaxImageBytes = 20 << 20

// Attachment is the part of a chat attachment needed to fetch it
type Attachment struct {
	URL         string
	ContentType string
}

// IsImage reports whether the content type denotes an image
func IsImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "image/")
}

// Downloader fetches attachments and encodes them as inline data
type Downloader struct {
	httpClient *http.Client
	maxBytes   int64
	logger     *slog.Logger
}

// NewDownloader creates a downloader using httpClient
func NewDownloader(httpClient *http.Client, logger *slog.Logger) *Downloader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Downloader{
		httpClient: httpClient,
		maxBytes:   DefaultMaxImageBytes,
		logger:     logger,
	}
}

// Download fetches one attachment and returns it base64 encoded
func (d *Downloader) Download(ctx context.Context, att Attachment) (ai.InlineData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, att.URL, nil)
	if err != nil {
		return ai.InlineData{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return ai.InlineData{}, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ai.InlineData{}, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes+1))
	if err != nil {
		return ai.InlineData{}, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > d.maxBytes {
		return ai.InlineData{}, fmt.Errorf("image exceeds %d bytes", d.maxBytes)
	}

	mimeType := att.ContentType
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	return ai.InlineData{
		MimeType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}, nil
}

// DownloadImages fetches every image attachment in order. A failed download
// is logged and skipped; the rest are still returned.
func (d *Downloader) DownloadImages(ctx context.Context, attachments []Attachment) []ai.InlineData {
	var images []ai.InlineData
	for i, att := range attachments {
		if !IsImage(att.ContentType) {
			continue
		}
		img, err := d.Download(ctx, att)
		if err != nil {
			d.logger.ErrorContext(ctx, "skipping image attachment",
				"attachment_index", i,
				"error", err)
			continue
		}
		images = append(images, img)
	}
	return images
}
