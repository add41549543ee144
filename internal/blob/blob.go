// Package blob uploads attachment bytes to an external blob store over HTTP
// and returns the public URL they are served from. Keys are chosen by the
// caller; the store is content-addressed by key only.
package blob

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/designdesk/designdesk/internal/apperrors"
	"github.com/go-resty/resty/v2"
)

const uploadPath = "/storage/v1/files/"

type Uploader interface {
	Upload(ctx context.Context, key string, mimeType string, data []byte) (string, error)
}

type Client struct {
	apiAddress string
	client     *resty.Client
}

func NewClient(apiAddress string) *Client {
	client := resty.New()

	client.
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second)

	return &Client{
		apiAddress: apiAddress,
		client:     client,
	}
}

func (c *Client) Upload(ctx context.Context, key string, mimeType string, data []byte) (string, error) {
	uploadURL, err := url.JoinPath(c.apiAddress, uploadPath, key)
	if err != nil {
		return "", err
	}

	response, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", mimeType).
		SetBody(data).
		Put(uploadURL)

	if err != nil {
		return "", &apperrors.ExternalServiceError{Service: "blob storage", Err: err}
	}

	if response.StatusCode() != http.StatusOK && response.StatusCode() != http.StatusCreated {
		return "", &apperrors.ExternalServiceError{
			Service: "blob storage",
			Err:     fmt.Errorf("unexpected status: %v", response.Status()),
		}
	}

	return uploadURL, nil
}
