package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/certmint/certmint/core"
	"github.com/certmint/certmint/ports"
)

// PinningClient talks to a Pinata-compatible IPFS pinning service.
type PinningClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewPinningClient creates a client for the pinning service at endpoint.
func NewPinningClient(endpoint, apiKey string) ports.Pinner {
	return &PinningClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// PinFile uploads a file to the pinning service and returns its CID.
func (p *PinningClient) PinFile(ctx context.Context, name string, r io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrPinningFailed, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrPinningFailed, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrPinningFailed, err)
	}

	return p.pin(ctx, "/pinning/pinFileToIPFS", writer.FormDataContentType(), &body)
}

// PinJSON pins an arbitrary JSON document and returns its CID.
func (p *PinningClient) PinJSON(ctx context.Context, v any) (string, error) {
	payload, err := json.Marshal(map[string]any{"pinataContent": v})
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrPinningFailed, err)
	}

	return p.pin(ctx, "/pinning/pinJSONToIPFS", "application/json", bytes.NewReader(payload))
}

func (p *PinningClient) pin(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+path, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrPinningFailed, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrPinningFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: pinning service returned %d", core.ErrPinningFailed, resp.StatusCode)
	}

	var pinned pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pinned); err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrPinningFailed, err)
	}
	if pinned.IpfsHash == "" {
		return "", fmt.Errorf("%w: empty CID in response", core.ErrPinningFailed)
	}

	return pinned.IpfsHash, nil
}
