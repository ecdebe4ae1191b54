package credential

// Reconcile merges the authority's tokens with the locally cached ones:
// remote entries first in remote order, then cached entries whose ID the
// authority did not report. Duplicate IDs keep their first occurrence and
// revoked tokens are dropped. The token service only returns secrets on
// create, so a remote entry without a secret keeps the cached one.
func Reconcile(remote, local []APIToken) []APIToken {
	merged := make([]APIToken, 0, len(remote)+len(local))
	seen := make(map[string]struct{}, len(remote)+len(local))

	secrets := make(map[string]string, len(local))
	for _, t := range local {
		if _, ok := secrets[t.ID]; !ok && t.Secret != "" {
			secrets[t.ID] = t.Secret
		}
	}

	add := func(tokens []APIToken) {
		for _, t := range tokens {
			if t.ID == "" {
				continue
			}
			if _, dup := seen[t.ID]; dup {
				continue
			}
			seen[t.ID] = struct{}{}
			if t.Revoked {
				continue
			}
			if t.Secret == "" {
				t.Secret = secrets[t.ID]
			}
			merged = append(merged, t)
		}
	}

	add(remote)
	add(local)
	return merged
}

func prepend(token APIToken, tokens []APIToken) []APIToken {
	out := make([]APIToken, 0, len(tokens)+1)
	out = append(out, token)
	for _, t := range tokens {
		if t.ID != token.ID {
			out = append(out, t)
		}
	}
	return out
}

func without(id string, tokens []APIToken) ([]APIToken, bool) {
	out := make([]APIToken, 0, len(tokens))
	removed := false
	for _, t := range tokens {
		if t.ID == id {
			removed = true
			continue
		}
		out = append(out, t)
	}
	return out, removed
}

func containsID(tokens []APIToken, id string) bool {
	for _, t := range tokens {
		if t.ID == id {
			return true
		}
	}
	return false
}
