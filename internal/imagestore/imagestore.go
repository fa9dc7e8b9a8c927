// Package imagestore persists payment screenshots with an external image
// host fallback: proof of payment must land somewhere durable even when
// the primary store rejects the upload.
package imagestore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

var ErrNoUploader = errors.New("no image uploader configured")

// Uploader stores one image and returns a shareable URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte, mimeType string) (string, error)
}

// Chain tries uploaders in order and returns the first success.
type Chain struct {
	uploaders []Uploader
}

func NewChain(uploaders ...Uploader) *Chain {
	var present []Uploader
	for _, u := range uploaders {
		if u != nil {
			present = append(present, u)
		}
	}
	return &Chain{uploaders: present}
}

func (c *Chain) Upload(ctx context.Context, filename string, data []byte, mimeType string) (string, error) {
	if len(c.uploaders) == 0 {
		return "", ErrNoUploader
	}
	var lastErr error
	for _, u := range c.uploaders {
		url, err := u.Upload(ctx, filename, data, mimeType)
		if err == nil {
			return url, nil
		}
		lastErr = err
		log.Warn().Err(err).Type("uploader", u).Msg("imagestore: upload failed, trying next")
	}
	return "", fmt.Errorf("all uploaders failed: %w", lastErr)
}

// DecodePayload turns a browser-supplied image payload into raw bytes
// and a sniffed mime type. Accepts both bare base64 and data URIs
// ("data:image/png;base64,...").
func DecodePayload(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, "", errors.New("empty image payload")
	}
	if strings.HasPrefix(payload, "data:") {
		i := strings.Index(payload, ",")
		if i < 0 {
			return nil, "", errors.New("malformed data URI")
		}
		payload = payload[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// browsers sometimes produce URL-safe alphabets
		data, err = base64.URLEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("decode image: %w", err)
		}
	}
	if len(data) == 0 {
		return nil, "", errors.New("empty image payload")
	}
	return data, http.DetectContentType(data), nil
}
