package gmail

import (
	"context"
	"fmt"

	"github.com/lu-zhengda/unimail/internal/domain"
	"github.com/lu-zhengda/unimail/internal/provider"
	"github.com/lu-zhengda/unimail/internal/store"
	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const userID = "me"

// Client talks to the Gmail API on behalf of one account.
type Client struct {
	tokenStore *store.KeyringTokenStore
	address    string
	service    *gmailapi.Service
}

// New creates a Gmail client for the given address.
func New(address string, tokenStore *store.KeyringTokenStore) *Client {
	return &Client{
		address:    address,
		tokenStore: tokenStore,
	}
}

// Authenticate runs the OAuth2 flow, saves the token, and initializes the Gmail service.
func (c *Client) Authenticate(ctx context.Context) error {
	token, err := authenticate(ctx)
	if err != nil {
		return fmt.Errorf("failed to authenticate gmail: %w", err)
	}
	if err := c.tokenStore.SaveToken(c.address, token); err != nil {
		return fmt.Errorf("failed to save gmail token: %w", err)
	}
	return c.initService(ctx, token)
}

func (c *Client) initService(ctx context.Context, token *oauth2.Token) error {
	srv, err := gmailapi.NewService(ctx, option.WithTokenSource(oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return fmt.Errorf("failed to create gmail service: %w", err)
	}
	c.service = srv
	return nil
}

// ensureService lazily initializes the Gmail service from the stored token.
func (c *Client) ensureService(ctx context.Context) error {
	if c.service != nil {
		return nil
	}
	token, err := c.tokenStore.LoadToken(c.address)
	if err != nil {
		return fmt.Errorf("failed to load gmail token: %w", err)
	}
	return c.initService(ctx, token)
}

// GetThread returns a thread with all its messages.
func (c *Client) GetThread(ctx context.Context, id string) (*domain.Thread, error) {
	if err := c.ensureService(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure gmail service: %w", err)
	}

	t, err := c.service.Users.Threads.Get(userID, id).
		Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get gmail thread %s: %w", id, err)
	}
	return mapThread(t), nil
}

// GetProfile returns the authenticated user's email address.
func (c *Client) GetProfile(ctx context.Context) (string, error) {
	if err := c.ensureService(ctx); err != nil {
		return "", fmt.Errorf("failed to ensure gmail service: %w", err)
	}

	profile, err := c.service.Users.GetProfile(userID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get gmail profile: %w", err)
	}
	return profile.EmailAddress, nil
}

// Compile-time interface compliance check.
var _ provider.ThreadFetcher = (*Client)(nil)
