// Package remote implements a scorer that delegates to an HTTP model server.
//
// The request body mirrors the tensor layout of the exported classifier:
//
//	{
//	  "support": [[...J*3...], ...],   // W*L rows, slot-major
//	  "labels":  [0, 1, ..., W-1],
//	  "query":   [[...J*3...], ...],   // L rows
//	  "device":  "cuda"
//	}
//
// and the server answers with {"logits": [W floats]}.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hupe1980/poseact/pose"
	"github.com/hupe1980/poseact/scorer"
)

// ErrEmptyEndpoint is returned when no endpoint URL is configured.
var ErrEmptyEndpoint = errors.New("remote scorer endpoint is empty")

// StatusError is returned when the model server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("model server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("model server returned %d", e.StatusCode)
}

// Options configures the client.
type Options struct {
	// Timeout bounds each HTTP exchange. Zero disables the client-side timeout;
	// the recognizer's score timeout still applies through the context.
	Timeout time.Duration
	// Device is forwarded to the model server.
	Device scorer.Device
	// Headers are added to every request (e.g. authorization).
	Headers map[string]string
	// HTTPClient overrides the underlying transport.
	HTTPClient *http.Client
}

// Client is a scorer.Scorer backed by a model server.
type Client struct {
	endpoint string
	device   scorer.Device
	http     *resty.Client
}

var _ scorer.Scorer = (*Client)(nil)

type scoreRequest struct {
	Support [][]float32 `json:"support"`
	Labels  []int       `json:"labels"`
	Query   [][]float32 `json:"query"`
	Device  string      `json:"device,omitempty"`
}

type scoreResponse struct {
	Logits []float32 `json:"logits"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a client posting to endpoint.
func New(endpoint string, optFns ...func(o *Options)) (*Client, error) {
	if endpoint == "" {
		return nil, ErrEmptyEndpoint
	}
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	if opts.Timeout > 0 {
		rc.SetTimeout(opts.Timeout)
	}
	rc.SetHeader("Content-Type", "application/json")
	rc.SetHeaders(opts.Headers)

	return &Client{endpoint: endpoint, device: opts.Device, http: rc}, nil
}

// Score implements scorer.Scorer.
func (c *Client) Score(ctx context.Context, req scorer.Request) ([]float32, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body := scoreRequest{
		Labels: req.SlotIDs,
		Query:  rows(req.Query),
	}
	for _, ex := range req.Exemplars {
		body.Support = append(body.Support, rows(ex)...)
	}
	if c.device != scorer.DeviceAuto {
		body.Device = c.device.String()
	}

	var out scoreResponse
	var apiErr errorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("remote scorer: %w", err)
	}
	if resp.IsError() {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Message: apiErr.Error}
	}
	return out.Logits, nil
}

func rows(s pose.Sequence) [][]float32 {
	out := make([][]float32, len(s))
	for i, p := range s {
		out[i] = p
	}
	return out
}
