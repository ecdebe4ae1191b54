package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/enrichhq/enrichctl/internal/cache"
)

// Namespace is the cache key the token list is stored under.
const Namespace = "enrich.api_tokens"

// schemaVersion is bumped whenever the persisted token shape changes.
// Version 0 is the legacy bare JSON array.
const schemaVersion = 1

var errUnsupportedSchema = errors.New("unsupported token cache schema")

type cacheEnvelope struct {
	Version int        `json:"version"`
	Tokens  []APIToken `json:"tokens"`
}

func loadTokens(kv cache.KV) ([]APIToken, error) {
	raw, ok, err := kv.Read(Namespace)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []APIToken{}, nil
	}
	return decodeTokens(raw)
}

func decodeTokens(raw string) ([]APIToken, error) {
	trimmed := strings.TrimSpace(raw)

	// Legacy layout: a bare array with no version field.
	if strings.HasPrefix(trimmed, "[") {
		var tokens []APIToken
		if err := json.Unmarshal([]byte(trimmed), &tokens); err != nil {
			return nil, fmt.Errorf("failed to decode legacy token cache: %w", err)
		}
		return Reconcile(nil, tokens), nil
	}

	var env cacheEnvelope
	if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
		return nil, fmt.Errorf("failed to decode token cache: %w", err)
	}
	if env.Version != schemaVersion {
		return nil, fmt.Errorf("%w: version %d", errUnsupportedSchema, env.Version)
	}
	if env.Tokens == nil {
		env.Tokens = []APIToken{}
	}
	return env.Tokens, nil
}

func saveTokens(kv cache.KV, tokens []APIToken) error {
	if tokens == nil {
		tokens = []APIToken{}
	}
	data, err := json.Marshal(cacheEnvelope{Version: schemaVersion, Tokens: tokens})
	if err != nil {
		return fmt.Errorf("failed to encode token cache: %w", err)
	}
	return kv.Write(Namespace, string(data))
}
