package auth

import (
	"context"

	"github.com/SysAdminDoc/PillSleepTracker/internal"
)

// Client identifies a presentation surface allowed to call the tracker API.
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Provider interface {
	ValidateTokenLocal(token string) (*Client, error)
	ValidateTokenRemote(ctx context.Context, token string) (*Client, error)
}

// New selects the local provider in development and the remote one otherwise.
func New(env, localToken, remoteURL string, logger internal.Logger) Provider {
	if env == "development" || remoteURL == "" {
		return NewLocalProvider(localToken, logger)
	}
	return NewRemoteProvider(remoteURL, logger)
}
