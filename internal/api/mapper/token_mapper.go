package mapper

import (
	"github.com/enrichhq/enrichctl/internal/api/dto/v1/token"
	"github.com/enrichhq/enrichctl/internal/credential"
)

// TokenFromResponse converts a token service response to an APIToken
func TokenFromResponse(r token.Response) credential.APIToken {
	return credential.APIToken{
		ID:        r.ID,
		Secret:    r.Secret,
		CreatedAt: r.CreatedAt,
		Revoked:   r.RevokedAt != nil,
	}
}

// TokensFromResponses converts a slice of token service responses
func TokensFromResponses(rs []token.Response) []credential.APIToken {
	result := make([]credential.APIToken, len(rs))
	for i, r := range rs {
		result[i] = TokenFromResponse(r)
	}
	return result
}
