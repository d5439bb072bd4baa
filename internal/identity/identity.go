// Package identity implements §4.1: deriving a stable UserKey, composing
// session-scoped UserIDs, and normalizing display names.
package identity

import (
	"errors"
	"strings"
	"unicode"

	"github.com/dkeye/sfu-control-plane/internal/domain"
)

var (
	ErrEmptyDisplayName = errors.New("identity: display name is empty after normalization")
	ErrDisplayNameTooLong = errors.New("identity: display name exceeds 64 code points")
)

const maxDisplayNameCodePoints = 64

// TokenClaims is the minimal shape this package needs from an auth token;
// token minting itself is out of scope (§1).
type TokenClaims struct {
	Email  string
	UserID string
}

// DeriveKey computes the caller's stable identity: the email if present,
// else the stable user identifier, matching §3's "Identity" definition.
func DeriveKey(claims TokenClaims) domain.UserKey {
	if claims.Email != "" {
		return domain.UserKey(claims.Email)
	}
	return domain.UserKey(claims.UserID)
}

// DeriveGuestKey builds a guest identity key for an unauthenticated caller,
// carrying the "guest:" prefix the Admission Engine tests for (§4.4).
func DeriveGuestKey(sessionID domain.SessionID) domain.UserKey {
	return domain.UserKey("guest:" + string(sessionID))
}

// ComposeUserID builds the session-scoped identity "{userKey}#{sessionId}".
func ComposeUserID(userKey domain.UserKey, sessionID domain.SessionID) domain.UserID {
	return domain.UserID(string(userKey) + "#" + string(sessionID))
}

// SplitUserID reverses ComposeUserID, returning the UserKey portion and
// whether a "#" separator was found.
func SplitUserID(userID domain.UserID) (domain.UserKey, domain.SessionID, bool) {
	s := string(userID)
	idx := strings.LastIndex(s, "#")
	if idx < 0 {
		return domain.UserKey(s), "", false
	}
	return domain.UserKey(s[:idx]), domain.SessionID(s[idx+1:]), true
}

// NormalizeDisplayName strips control characters, collapses whitespace runs,
// and rejects empty or over-long (>64 code point) results. This is distinct
// from the lookup normalization DM resolution performs (§4.7).
func NormalizeDisplayName(raw string) (string, error) {
	var b strings.Builder
	lastWasSpace := false
	for _, r := range raw {
		if unicode.IsSpace(r) {
			if lastWasSpace {
				continue
			}
			lastWasSpace = true
			b.WriteRune(' ')
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		lastWasSpace = false
		b.WriteRune(r)
	}
	name := strings.TrimSpace(b.String())
	if name == "" {
		return "", ErrEmptyDisplayName
	}
	count := 0
	for range name {
		count++
		if count > maxDisplayNameCodePoints {
			return "", ErrDisplayNameTooLong
		}
	}
	return name, nil
}
