package imagestore

import (
	"bytes"
	"context"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// Destroyer removes previously uploaded product images. Deletion after a
// product delete is best-effort: at most one attempt, no retry, and a
// failure never rolls back the database delete.
type Destroyer interface {
	Destroy(ctx context.Context, imageID string) error
}

// Client calls the external image store's signed deletion endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Destroy(ctx context.Context, imageID string) error {
	payload, err := jsoniter.Marshal(map[string]string{"imageId": imageID})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "destroy image %s", imageID)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.Errorf("destroy image %s: unexpected status %d", imageID, resp.StatusCode)
	}
	return nil
}

// Noop ignores destroy requests. Used when no image store is configured.
type Noop struct{}

func (Noop) Destroy(context.Context, string) error { return nil }
