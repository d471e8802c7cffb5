// Package client talks to the smart hub image service from the display
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hubward/smarthub/api/models"
)

const defaultTimeout = 10 * time.Second

type HubClient struct {
	baseURL string
	client  *http.Client
}

func NewHubClient(baseURL string) *HubClient {
	return &HubClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// NewHubClientWith uses the provided http client, mainly for tests.
func NewHubClientWith(baseURL string, httpClient *http.Client) *HubClient {
	return &HubClient{
		baseURL: baseURL,
		client:  httpClient,
	}
}

func (hc *HubClient) BaseURL() string {
	return hc.baseURL
}

// ListImages retrieves all images stored on the hub server.
func (hc *HubClient) ListImages(ctx context.Context) ([]models.ImageResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hc.baseURL+"/api/images", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := hc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, serverError(resp.StatusCode, body)
	}

	var images []models.ImageResponse
	if err := json.Unmarshal(body, &images); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return images, nil
}

// Download fetches the raw bytes of a server image by its url path.
func (hc *HubClient) Download(ctx context.Context, urlPath string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hc.baseURL+urlPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := hc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned status %d for %s", resp.StatusCode, urlPath)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image bytes: %w", err)
	}
	return data, nil
}

// DeleteImage removes a single server image by id.
func (hc *HubClient) DeleteImage(ctx context.Context, id string) error {
	deleteURL := fmt.Sprintf("%s/api/images/%s", hc.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, deleteURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := hc.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return serverError(resp.StatusCode, body)
	}

	return nil
}

// DeleteAllImages clears the server image collection.
func (hc *HubClient) DeleteAllImages(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, hc.baseURL+"/api/images", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := hc.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return serverError(resp.StatusCode, body)
	}

	return nil
}

// DeviceIP asks the server for its best-guess LAN address.
func (hc *HubClient) DeviceIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hc.baseURL+"/api/device-ip", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := hc.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", serverError(resp.StatusCode, body)
	}

	var ipResp models.DeviceIPResponse
	if err := json.Unmarshal(body, &ipResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return ipResp.IP, nil
}

func serverError(status int, body []byte) error {
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return fmt.Errorf("server error: %s", errResp.Error)
	}
	return fmt.Errorf("server returned status %d: %s", status, string(body))
}
