package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/SysAdminDoc/PillSleepTracker/internal"
)

// RemoteProvider validates tokens against an external auth service.
type RemoteProvider struct {
	url    string
	client *http.Client
	logger internal.Logger
}

func NewRemoteProvider(url string, logger internal.Logger) *RemoteProvider {
	return &RemoteProvider{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
		logger: logger,
	}
}

func (a *RemoteProvider) ValidateTokenLocal(token string) (*Client, error) {
	return nil, errors.New("not implemented in RemoteProvider")
}

func (a *RemoteProvider) ValidateTokenRemote(ctx context.Context, token string) (*Client, error) {
	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		a.logger.Errorf("auth: failed to create request: %v", err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Errorf("auth: failed to call auth service: %v", err)
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		a.logger.Errorf("auth: auth service returned %d", resp.StatusCode)
		return nil, errors.New("auth service returned non-200")
	}

	var client Client
	if err := json.NewDecoder(resp.Body).Decode(&client); err != nil {
		a.logger.Errorf("auth: failed to decode auth response: %v", err)
		return nil, err
	}
	return &client, nil
}
