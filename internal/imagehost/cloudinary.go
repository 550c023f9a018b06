// Package imagehost relays uploaded files to Cloudinary and deletes them
// again when the owning record goes away.  Only the hosted REST API is
// used: a signed multipart POST for uploads and a signed form POST for
// destroys.  Upload failures propagate to the caller (the owning write is
// rejected); destroy failures are the caller's choice to swallow, since
// by then the local record change already succeeded.
package imagehost

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Folders on the image host, keyed by owning entity type.
const (
	FolderBusinesses    = "businesses"
	FolderCities        = "cities"
	FolderCategories    = "categories"
	FolderSubCategories = "subcategories"
)

// Client talks to the Cloudinary REST API for one cloud.
type Client struct {
	CloudName string
	APIKey    string
	APISecret string

	// HTTPClient is used for all requests; a 30s-timeout default client
	// is used when nil.
	HTTPClient *http.Client

	// BaseURL overrides the API endpoint, for tests.
	BaseURL string
}

// New returns a client for the given cloud credentials.
func New(cloudName, apiKey, apiSecret string) *Client {
	return &Client{
		CloudName:  cloudName,
		APIKey:     apiKey,
		APISecret:  apiSecret,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// UploadResult carries the hosted image's public URL and the public id
// needed to delete it later.
type UploadResult struct {
	URL      string
	PublicID string
}

func (c *Client) endpoint(action string) string {
	base := c.BaseURL
	if base == "" {
		base = "https://api.cloudinary.com"
	}
	return fmt.Sprintf("%s/v1_1/%s/image/%s", base, c.CloudName, action)
}

// sign produces the request signature: SHA-1 over the sorted form params
// (minus file/api_key) concatenated with the API secret.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	// Cloudinary requires lexicographic param order.
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[i] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "&") + c.APISecret))
	return hex.EncodeToString(sum[:])
}

// Upload sends one file to the host under the given folder and returns its
// public URL and public id.
func (c *Client) Upload(ctx context.Context, folder, filename string, file io.Reader) (UploadResult, error) {
	ts := strconv.FormatInt(time.Now().UTC().Unix(), 10)
	params := map[string]string{"folder": folder, "timestamp": ts}
	sig := c.sign(params)

	var body strings.Builder
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := io.Copy(fw, file); err != nil {
		return UploadResult{}, err
	}
	for k, v := range params {
		if err := w.WriteField(k, v); err != nil {
			return UploadResult{}, err
		}
	}
	if err := w.WriteField("api_key", c.APIKey); err != nil {
		return UploadResult{}, err
	}
	if err := w.WriteField("signature", sig); err != nil {
		return UploadResult{}, err
	}
	if err := w.Close(); err != nil {
		return UploadResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("upload"), strings.NewReader(body.String()))
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return UploadResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return UploadResult{}, fmt.Errorf("image host upload: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out struct {
		SecureURL string `json:"secure_url"`
		PublicID  string `json:"public_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return UploadResult{}, fmt.Errorf("image host upload: decode response: %w", err)
	}
	return UploadResult{URL: out.SecureURL, PublicID: out.PublicID}, nil
}

// Destroy deletes a hosted image by public id.  A "not found" result from
// the host is treated as success: the image is gone either way.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	ts := strconv.FormatInt(time.Now().UTC().Unix(), 10)
	params := map[string]string{"public_id": publicID, "timestamp": ts}
	sig := c.sign(params)

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", ts)
	form.Set("api_key", c.APIKey)
	form.Set("signature", sig)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("destroy"), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("image host destroy: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var out struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("image host destroy: decode response: %w", err)
	}
	if out.Result != "ok" && out.Result != "not found" {
		return fmt.Errorf("image host destroy: result %q", out.Result)
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// publicIDPattern matches the public id inside a hosted delivery URL, e.g.
// https://res.cloudinary.com/demo/image/upload/v123/businesses/abc.jpg
// -> businesses/abc.  The optional version segment is skipped.
var publicIDPattern = regexp.MustCompile(`upload/(?:v\d+/)?([^.]+)`)

// ExtractPublicID pulls the public id out of a stored image URL.  Returns
// "" when the URL does not look like a hosted delivery URL.
func ExtractPublicID(imageURL string) string {
	m := publicIDPattern.FindStringSubmatch(imageURL)
	if m == nil {
		return ""
	}
	return m[1]
}
