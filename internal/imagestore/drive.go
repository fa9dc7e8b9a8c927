package imagestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"
)

// DriveUploader stores screenshots in a cloud drive folder and makes
// them link-viewable.
type DriveUploader struct {
	token    string
	folderID string
	client   *http.Client
	baseURL  string
}

func NewDriveUploader(token, folderID string) *DriveUploader {
	return &DriveUploader{
		token:    token,
		folderID: folderID,
		client:   &http.Client{Timeout: 30 * time.Second},
		baseURL:  "https://www.googleapis.com",
	}
}

func (d *DriveUploader) Upload(ctx context.Context, filename string, data []byte, mimeType string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := mw.CreatePart(metaHeader)
	if err != nil {
		return "", err
	}
	meta := map[string]any{"name": filename}
	if d.folderID != "" {
		meta["parents"] = []string{d.folderID}
	}
	if err := json.NewEncoder(metaPart).Encode(meta); err != nil {
		return "", err
	}

	fileHeader := textproto.MIMEHeader{}
	fileHeader.Set("Content-Type", mimeType)
	filePart, err := mw.CreatePart(fileHeader)
	if err != nil {
		return "", err
	}
	if _, err := filePart.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	url := d.baseURL + "/upload/drive/v3/files?uploadType=multipart&fields=id"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+d.token)
	req.Header.Set("Content-Type", "multipart/related; boundary="+mw.Boundary())

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("drive upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("drive upload returned %d: %s", resp.StatusCode, string(raw))
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("drive upload: decode response: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("drive upload: response carried no file id")
	}

	if err := d.shareWithLink(ctx, out.ID); err != nil {
		return "", err
	}
	return "https://drive.google.com/uc?id=" + out.ID, nil
}

// shareWithLink grants anyone-with-the-link read access; the admin opens
// proofs from a chat message, not from the drive account.
func (d *DriveUploader) shareWithLink(ctx context.Context, fileID string) error {
	payload := []byte(`{"role":"reader","type":"anyone"}`)
	url := fmt.Sprintf("%s/drive/v3/files/%s/permissions", d.baseURL, fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+d.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("share file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("share file returned %d: %s", resp.StatusCode, string(raw))
	}
	return nil
}
