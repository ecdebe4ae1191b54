package credential

import (
	"context"
	"errors"
	"time"

	"github.com/enrichhq/enrichctl/internal/notice"
)

// APIToken is a bearer credential for the enrichment API.
type APIToken struct {
	ID        string    `json:"id"`
	Secret    string    `json:"secret"`
	CreatedAt time.Time `json:"createdAt"`
	Revoked   bool      `json:"revoked"`
}

// ErrTokenNotFound is returned by an Authority that does not know the
// token being revoked.
var ErrTokenNotFound = errors.New("token not found")

// Authority is the remote service that issues and revokes tokens.
type Authority interface {
	ListTokens(ctx context.Context) ([]APIToken, error)
	CreateToken(ctx context.Context) (APIToken, error)
	RevokeToken(ctx context.Context, id string) error
}

// ListResult is the reconciled token list. Degraded is set when the
// authority could not be reached and the list came from the local cache.
type ListResult struct {
	Tokens   []APIToken      `json:"tokens"`
	Degraded bool            `json:"degraded"`
	Notices  []notice.Notice `json:"notices,omitempty"`
}

// CreateResult holds the new token. LocallyGenerated means the authority
// never saw this token and will not accept it until it is registered.
type CreateResult struct {
	Token            APIToken        `json:"token"`
	LocallyGenerated bool            `json:"locallyGenerated"`
	Tokens           []APIToken      `json:"tokens"`
	Notices          []notice.Notice `json:"notices,omitempty"`
}

// RevokeResult reports a revoke. The token is gone from the cache even when
// RemoteErr is set.
type RevokeResult struct {
	Removed   bool            `json:"removed"`
	Tokens    []APIToken      `json:"tokens"`
	RemoteErr error           `json:"-"`
	Notices   []notice.Notice `json:"notices,omitempty"`
}
