package credential

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func tok(id string) APIToken {
	return APIToken{ID: id, Secret: "s-" + id, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func ids(tokens []APIToken) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.ID)
	}
	return out
}

func TestReconcile(t *testing.T) {
	revoked := tok("r2")
	revoked.Revoked = true

	tests := []struct {
		name   string
		remote []APIToken
		local  []APIToken
		want   []string
	}{
		{"both empty", nil, nil, []string{}},
		{"remote only", []APIToken{tok("r1"), tok("r2")}, nil, []string{"r1", "r2"}},
		{"local only", nil, []APIToken{tok("l1")}, []string{"l1"}},
		{"union remote first", []APIToken{tok("r1")}, []APIToken{tok("l1"), tok("l2")}, []string{"r1", "l1", "l2"}},
		{"overlap prefers remote", []APIToken{tok("a"), tok("b")}, []APIToken{tok("b"), tok("c")}, []string{"a", "b", "c"}},
		{"duplicate ids collapse", []APIToken{tok("a"), tok("a")}, []APIToken{tok("a")}, []string{"a"}},
		{"revoked remote hides local copy", []APIToken{tok("r1"), revoked}, []APIToken{tok("r2")}, []string{"r1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.remote, tt.local)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestReconcileKeepsRemoteFields(t *testing.T) {
	remote := tok("shared")
	remote.Secret = "remote-secret"
	local := tok("shared")
	local.Secret = "local-secret"

	got := Reconcile([]APIToken{remote}, []APIToken{local})
	assert.Len(t, got, 1)
	assert.Equal(t, "remote-secret", got[0].Secret)
}

func TestDecodeTokensLegacyArray(t *testing.T) {
	tokens, err := decodeTokens(`[{"id":"t1","secret":"x","createdAt":"2026-01-01T00:00:00Z","revoked":false},{"id":"t1","secret":"y"}]`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"t1"}, ids(tokens))
}

func TestDecodeTokensUnknownVersion(t *testing.T) {
	_, err := decodeTokens(`{"version":7,"tokens":[]}`)
	assert.ErrorIs(t, err, errUnsupportedSchema)
}

func TestReconcileFillsMaskedSecret(t *testing.T) {
	remote := tok("t1")
	remote.Secret = ""

	got := Reconcile([]APIToken{remote, tok("t2")}, []APIToken{tok("t1")})
	assert.Equal(t, "s-t1", got[0].Secret)
	assert.Equal(t, "s-t2", got[1].Secret)
}
