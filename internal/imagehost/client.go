// Package imagehost загружает изображения на внешний хостинг (API в стиле imgbb).
package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// ErrUpload возвращается, когда хостинг отклонил файл.
var ErrUpload = errors.New("image host rejected upload")

// Client отправляет файлы на хостинг изображений.
type Client struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewClient создаёт клиент хостинга.
func NewClient(apiURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type uploadResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) newRequest(ctx context.Context, fileName string, content io.Reader) (*http.Request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", fileName)
	if err != nil {
		return nil, err
	}
	if _, err = io.Copy(part, content); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	u, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, nil
}

// Upload отправляет файл и возвращает его публичный URL.
func (c *Client) Upload(ctx context.Context, fileName string, content io.Reader) (string, error) {
	const op = "imagehost.Upload"

	req, err := c.newRequest(ctx, fileName, content)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	var body uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%s: unexpected status %s: %w", op, resp.Status, err)
	}
	if resp.StatusCode != http.StatusOK || !body.Success || body.Data.URL == "" {
		return "", fmt.Errorf("%s: %w: %s %s", op, ErrUpload, resp.Status, body.Error.Message)
	}
	return body.Data.URL, nil
}
