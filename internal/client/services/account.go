package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sharesaver/internal/client/client"
	"github.com/dmitrijs2005/sharesaver/internal/client/models"
)

// ResolveAccount picks the first managed account of the session. There is
// no fallback account.
func ResolveAccount(ctx context.Context, c client.Client) (models.ID, error) {
	accounts, err := c.Accounts(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", client.ErrNoAccount, err)
	}
	if len(accounts) == 0 || accounts[0].ID == "" {
		return "", client.ErrNoAccount
	}
	return accounts[0].ID, nil
}

// OpenSession creates a fresh session and logs in.
func OpenSession(ctx context.Context, sessions client.Factory) (client.Client, error) {
	c, err := sessions()
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	if err := c.Authenticate(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
