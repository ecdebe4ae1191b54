package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/enrichhq/enrichctl/internal/api/dto/v1/token"
	"github.com/enrichhq/enrichctl/internal/api/mapper"
	"github.com/enrichhq/enrichctl/internal/credential"
)

func (c *Client) ListTokens(ctx context.Context) ([]credential.APIToken, error) {
	var resp []token.Response
	if err := c.do(ctx, http.MethodGet, "/tokens", nil, nil, &resp); err != nil {
		return nil, err
	}
	return mapper.TokensFromResponses(resp), nil
}

func (c *Client) CreateToken(ctx context.Context) (credential.APIToken, error) {
	var resp token.Response
	if err := c.do(ctx, http.MethodPost, "/tokens", nil, struct{}{}, &resp); err != nil {
		return credential.APIToken{}, err
	}
	return mapper.TokenFromResponse(resp), nil
}

// RevokeToken reports credential.ErrTokenNotFound when the service does not
// know id.
func (c *Client) RevokeToken(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodDelete, "/tokens/"+url.PathEscape(id), nil, nil, nil)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %s: %w", credential.ErrTokenNotFound, id, err)
	}
	return err
}
