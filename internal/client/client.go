package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agenthands/echofilter/internal/core/model"
)

// Client talks to a running echofilter server's JSON API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Minute},
	}
}

// Submit uploads an audio file with its categories and returns the finished analysis.
func (c *Client) Submit(ctx context.Context, audioPath string, categories []string) (*model.Analysis, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, err
	}
	for _, cat := range categories {
		if err := mw.WriteField("category", cat); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var a model.Analysis
	if err := c.do(ctx, http.MethodPost, "/api/analyses", &body, mw.FormDataContentType(), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) Get(ctx context.Context, id string) (*model.Analysis, error) {
	var a model.Analysis
	if err := c.do(ctx, http.MethodGet, "/api/analyses/"+id, nil, "", &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) List(ctx context.Context, limit int) ([]model.Summary, error) {
	var resp struct {
		Analyses []model.Summary `json:"analyses"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/analyses?limit=%d", limit), nil, "", &resp); err != nil {
		return nil, err
	}
	return resp.Analyses, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}
