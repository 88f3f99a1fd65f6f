// Package runpod implements the provider client against the RunPod
// REST API.
package runpod

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/efortin/podctl/pkg/provider"
)

const (
	// DefaultBaseURL is the production REST endpoint.
	DefaultBaseURL = "https://rest.runpod.io/v1"
	// DefaultTimeout bounds a single API call.
	DefaultTimeout = 30 * time.Second
)

// capacityPhrases are the marketplace's wordings for "this GPU type
// cannot be provisioned right now". Matched case-insensitively.
var capacityPhrases = []string{
	"no longer any instances available",
	"insufficient funds",
}

// Client talks to the RunPod REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a RunPod API client authenticated with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListGPUTypes returns the current GPU catalog with spot prices.
func (c *Client) ListGPUTypes(ctx context.Context) ([]provider.GPUType, error) {
	var raw []gpuType
	if err := c.do(ctx, http.MethodGet, "/gputypes", nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to list GPU types: %w", err)
	}
	types := make([]provider.GPUType, 0, len(raw))
	for _, g := range raw {
		types = append(types, g.toProvider())
	}
	return types, nil
}

// ListPods returns all pods owned by the account.
func (c *Client) ListPods(ctx context.Context) ([]provider.Pod, error) {
	var raw []pod
	if err := c.do(ctx, http.MethodGet, "/pods", nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to list pods: %w", err)
	}
	pods := make([]provider.Pod, 0, len(raw))
	for _, p := range raw {
		pods = append(pods, p.toProvider())
	}
	return pods, nil
}

// CreatePod provisions a new pod. A marketplace rejection for the
// requested GPU type is returned as a *provider.CapacityError.
func (c *Client) CreatePod(ctx context.Context, req provider.CreatePodRequest) (*provider.Pod, error) {
	body := createPodRequest{
		Name:              req.Name,
		ImageName:         req.ImageName,
		GPUTypeID:         req.GPUTypeID,
		GPUCount:          req.GPUCount,
		ContainerDiskInGB: req.ContainerDiskGB,
		TemplateID:        req.TemplateID,
		NetworkVolumeID:   req.NetworkVolumeID,
		VolumeMountPath:   req.VolumeMountPath,
		SupportPublicIP:   req.SupportPublicIP,
		StartSSH:          req.StartSSH,
		Env:               req.Env,
	}
	var raw pod
	if err := c.do(ctx, http.MethodPost, "/pods", body, &raw); err != nil {
		if msg, ok := capacityMessage(err); ok {
			return nil, &provider.CapacityError{GPUTypeID: req.GPUTypeID, Message: msg}
		}
		return nil, fmt.Errorf("failed to create pod: %w", err)
	}
	created := raw.toProvider()
	return &created, nil
}

// StartPod resumes a stopped pod.
func (c *Client) StartPod(ctx context.Context, podID string, gpuCount int) error {
	path := fmt.Sprintf("/pods/%s/start", podID)
	if err := c.do(ctx, http.MethodPost, path, startPodRequest{GPUCount: gpuCount}, nil); err != nil {
		return fmt.Errorf("failed to start pod %s: %w", podID, err)
	}
	return nil
}

// StopPod stops a running pod without releasing it.
func (c *Client) StopPod(ctx context.Context, podID string) error {
	path := fmt.Sprintf("/pods/%s/stop", podID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("failed to stop pod %s: %w", podID, err)
	}
	return nil
}

// TerminatePod deletes a pod. The pod is no longer resolvable afterwards.
func (c *Client) TerminatePod(ctx context.Context, podID string) error {
	if err := c.do(ctx, http.MethodDelete, "/pods/"+podID, nil, nil); err != nil {
		return fmt.Errorf("failed to terminate pod %s: %w", podID, err)
	}
	return nil
}

// do performs one API call, decoding a JSON response into out when out
// is non-nil. Non-2xx responses come back as *provider.APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		var envelope apiError
		message := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
			message = envelope.Error
		}
		return &provider.APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// capacityMessage reports whether err carries one of the marketplace's
// capacity wordings, returning the message when it does.
func capacityMessage(err error) (string, bool) {
	var ae *provider.APIError
	if !errors.As(err, &ae) {
		return "", false
	}
	lower := strings.ToLower(ae.Message)
	for _, phrase := range capacityPhrases {
		if strings.Contains(lower, phrase) {
			return ae.Message, true
		}
	}
	return "", false
}
