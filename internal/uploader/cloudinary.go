// Package uploader talks to the external asset host that stores product
// images. The host speaks the Cloudinary unsigned-upload dialect: a form POST
// carrying the image as a base64 data URI, answered with JSON containing a
// durable secure_url.
package uploader

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

// Image is one product image to upload, captured from the multipart request.
type Image struct {
	AccountID uint64 // owning account, part of the public id
	Filename  string // original filename as sent by the client
	MimeType  string // content type of the file part
	Data      []byte // raw image bytes
}

// Uploader stores an image and returns its durable URL.
type Uploader interface {
	Upload(ctx context.Context, img Image) (string, error)
}

// Client is the HTTP implementation of Uploader.
type Client struct {
	endpoint string
	preset   string
	folder   string
	http     *http.Client
}

// New builds a Client for the given upload endpoint. preset may be empty
// when the endpoint does not require one.
func New(endpoint, preset, folder string) *Client {
	return &Client{
		endpoint: endpoint,
		preset:   preset,
		folder:   folder,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload posts the image and returns the asset host's secure URL. The public
// id is derived from the owning account, the upload instant and the original
// filename sans extension, which keeps ids unique per account without any
// coordination.
func (c *Client) Upload(ctx context.Context, img Image) (string, error) {
	dataURI := "data:" + img.MimeType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
	publicID := fmt.Sprintf("%d-%d-%s", img.AccountID, time.Now().UnixMilli(), baseName(img.Filename))

	form := url.Values{}
	form.Set("file", dataURI)
	form.Set("public_id", publicID)
	form.Set("folder", c.folder)
	if c.preset != "" {
		form.Set("upload_preset", c.preset)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("upload failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("upload response: %w", err)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("upload response missing secure_url")
	}
	return out.SecureURL, nil
}

// baseName strips any path and the extension from a client-supplied filename.
func baseName(name string) string {
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	return name
}
