package credential

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/enrichhq/enrichctl/internal/cache"
	"github.com/enrichhq/enrichctl/internal/logging"
	"github.com/enrichhq/enrichctl/internal/notice"

	"github.com/google/uuid"
)

// LocalIDPrefix marks tokens that were generated on this machine.
const LocalIDPrefix = "local-"

const secretBytes = 32

// Store keeps the local token cache in line with the remote authority.
// It is the only writer of the cache namespace.
type Store struct {
	authority Authority
	kv        cache.KV
	logger    *logging.Logger

	mu  sync.Mutex
	now func() time.Time
}

func NewStore(authority Authority, kv cache.KV, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Store{
		authority: authority,
		kv:        kv,
		logger:    logger,
		now:       time.Now,
	}
}

// Cached returns the tokens currently in the local cache.
func (s *Store) Cached() ([]APIToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tokens, err := loadTokens(s.kv)
	if err != nil {
		return nil, logging.WrapError(err, "reading token cache")
	}
	return tokens, nil
}

// cachedOrEmpty loads the cache, treating an unreadable cache as empty.
func (s *Store) cachedOrEmpty() []APIToken {
	tokens, err := loadTokens(s.kv)
	if err != nil {
		s.logger.Warn("Ignoring unreadable token cache: %v", logging.WrapError(err, "reading token cache"))
		return []APIToken{}
	}
	return tokens
}

// List returns the reconciled token list. It never fails: when the
// authority is unavailable the cached list comes back marked Degraded.
func (s *Store) List(ctx context.Context) ListResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	local := s.cachedOrEmpty()

	remote, err := s.authority.ListTokens(ctx)
	if err != nil {
		s.logger.Warn("Token service unavailable, showing cached tokens: %v", err)
		return ListResult{
			Tokens:   local,
			Degraded: true,
			Notices:  []notice.Notice{notice.Warning("Token service is unavailable; showing locally cached tokens")},
		}
	}

	merged := Reconcile(remote, local)
	if err := saveTokens(s.kv, merged); err != nil {
		s.logger.Error("Failed to persist token cache: %v", logging.WrapError(err, "writing token cache"))
		return ListResult{
			Tokens:  merged,
			Notices: []notice.Notice{notice.Warning("Tokens could not be saved locally")},
		}
	}

	return ListResult{Tokens: merged}
}

// Create asks the authority for a new token and falls back to generating
// one locally. The only error is a failing random source.
func (s *Store) Create(ctx context.Context) (CreateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	local := s.cachedOrEmpty()

	var result CreateResult
	token, err := s.authority.CreateToken(ctx)
	if err == nil {
		err = checkIssued(token)
	}
	if err != nil {
		s.logger.Warn("Token service create failed, generating token locally: %v", err)
		token, err = s.generateLocal(local)
		if err != nil {
			return CreateResult{}, err
		}
		result.LocallyGenerated = true
		result.Notices = append(result.Notices,
			notice.Warning("Token was generated locally and is not verified by the server"))
	}

	tokens := prepend(token, local)
	if err := saveTokens(s.kv, tokens); err != nil {
		s.logger.Error("Failed to persist token cache: %v", logging.WrapError(err, "writing token cache"))
		result.Notices = append(result.Notices, notice.Warning("Token could not be saved locally"))
	}

	result.Token = token
	result.Tokens = tokens
	return result, nil
}

// checkIssued rejects tokens the authority returned without a usable id
// or secret.
func checkIssued(token APIToken) error {
	if token.ID == "" {
		return fmt.Errorf("token service returned a token without an id")
	}
	if len(token.Secret) != 2*secretBytes {
		return fmt.Errorf("token service returned a secret of length %d", len(token.Secret))
	}
	if _, err := hex.DecodeString(token.Secret); err != nil {
		return fmt.Errorf("token service returned a malformed secret: %w", err)
	}
	return nil
}

func (s *Store) generateLocal(existing []APIToken) (APIToken, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return APIToken{}, fmt.Errorf("failed to generate token: %w", err)
	}

	id := LocalIDPrefix + uuid.NewString()
	for containsID(existing, id) {
		id = LocalIDPrefix + uuid.NewString()
	}

	return APIToken{
		ID:        id,
		Secret:    hex.EncodeToString(buf),
		CreatedAt: s.now().UTC(),
	}, nil
}

// Revoke removes the token locally whatever the authority says. An unknown
// id is a no-op, and an authority that does not know the id counts as a
// successful revoke.
func (s *Store) Revoke(ctx context.Context, id string) RevokeResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	local := s.cachedOrEmpty()
	tokens, removed := without(id, local)
	result := RevokeResult{Removed: removed, Tokens: tokens}

	err := s.authority.RevokeToken(ctx, id)
	switch {
	case err == nil, errors.Is(err, ErrTokenNotFound):
	case removed:
		s.logger.Warn("Token service revoke failed for %s, removing locally only: %v", id, err)
		result.RemoteErr = err
		result.Notices = append(result.Notices,
			notice.Warning("Token was removed locally but the server could not confirm revocation"))
	default:
		s.logger.Warn("Token service revoke failed for %s: %v", id, err)
		result.RemoteErr = err
		result.Notices = append(result.Notices,
			notice.Warning("Token is not cached locally and the server could not confirm revocation"))
	}

	if !removed {
		return result
	}

	if err := saveTokens(s.kv, tokens); err != nil {
		s.logger.Error("Failed to persist token cache: %v", logging.WrapError(err, "writing token cache"))
		result.Notices = append(result.Notices, notice.Warning("Token removal could not be saved locally"))
	}
	return result
}
