package imagestore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ImgHostUploader pushes images to a public image host; used as the
// fallback when the drive upload fails.
type ImgHostUploader struct {
	apiKey  string
	client  *http.Client
	baseURL string
}

func NewImgHostUploader(apiKey string) *ImgHostUploader {
	return &ImgHostUploader{
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://api.imgbb.com",
	}
}

func (u *ImgHostUploader) Upload(ctx context.Context, filename string, data []byte, _ string) (string, error) {
	form := url.Values{}
	form.Set("key", u.apiKey)
	form.Set("name", filename)
	form.Set("image", base64.StdEncoding.EncodeToString(data))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/1/upload", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image host upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("image host returned %d: %s", resp.StatusCode, string(raw))
	}

	var out struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("image host: decode response: %w", err)
	}
	if out.Data.URL == "" {
		return "", fmt.Errorf("image host: response carried no url")
	}
	return out.Data.URL, nil
}
