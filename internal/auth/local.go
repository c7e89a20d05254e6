package auth

import (
	"context"
	"errors"

	"github.com/SysAdminDoc/PillSleepTracker/internal"
)

// LocalProvider accepts the single configured token. This is the development
// default for a single-user tool.
type LocalProvider struct {
	token  string
	logger internal.Logger
}

func NewLocalProvider(token string, logger internal.Logger) *LocalProvider {
	return &LocalProvider{token: token, logger: logger}
}

func (a *LocalProvider) ValidateTokenLocal(token string) (*Client, error) {
	if token == a.token {
		return &Client{ID: "local", Name: "Desktop Widget"}, nil
	}
	a.logger.Warnf("auth: invalid token")
	return nil, errors.New("invalid token")
}

func (a *LocalProvider) ValidateTokenRemote(ctx context.Context, token string) (*Client, error) {
	return a.ValidateTokenLocal(token)
}
