package identity

import (
	"errors"
	"strings"
	"testing"

	"github.com/dkeye/sfu-control-plane/internal/domain"
)

func TestDeriveKey(t *testing.T) {
	cases := []struct {
		name   string
		claims TokenClaims
		want   domain.UserKey
	}{
		{"email preferred", TokenClaims{Email: "a@b.com", UserID: "u1"}, "a@b.com"},
		{"falls back to user id", TokenClaims{UserID: "u1"}, "u1"},
		{"both empty", TokenClaims{}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveKey(tc.claims); got != tc.want {
				t.Errorf("DeriveKey() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDeriveGuestKey(t *testing.T) {
	got := DeriveGuestKey("sess-1")
	if !strings.HasPrefix(string(got), "guest:") {
		t.Errorf("DeriveGuestKey() = %q, want guest: prefix", got)
	}
	if got != "guest:sess-1" {
		t.Errorf("DeriveGuestKey() = %q, want guest:sess-1", got)
	}
}

func TestComposeAndSplitUserID(t *testing.T) {
	userID := ComposeUserID("alice", "sess-1")
	if userID != "alice#sess-1" {
		t.Fatalf("ComposeUserID() = %q, want alice#sess-1", userID)
	}
	key, sess, ok := SplitUserID(userID)
	if !ok || key != "alice" || sess != "sess-1" {
		t.Errorf("SplitUserID() = (%q, %q, %v), want (alice, sess-1, true)", key, sess, ok)
	}
}

func TestSplitUserIDNoSeparator(t *testing.T) {
	key, sess, ok := SplitUserID("bare")
	if ok || key != "bare" || sess != "" {
		t.Errorf("SplitUserID() = (%q, %q, %v), want (bare, \"\", false)", key, sess, ok)
	}
}

func TestSplitUserIDLastHashWins(t *testing.T) {
	// a userKey containing "#" is split at the last separator, so the
	// session id portion never absorbs part of the key.
	key, sess, ok := SplitUserID("a#b#sess-1")
	if !ok || key != "a#b" || sess != "sess-1" {
		t.Errorf("SplitUserID() = (%q, %q, %v), want (a#b, sess-1, true)", key, sess, ok)
	}
}

func TestNormalizeDisplayName(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{"collapses whitespace", "  Alice   Smith  ", "Alice Smith", nil},
		{"strips control chars", "Alice\x00\x01Smith", "AliceSmith", nil},
		{"tab and newline collapse to one space", "Alice\t\nSmith", "Alice Smith", nil},
		{"empty after normalization", "   \x00  ", "", ErrEmptyDisplayName},
		{"only control chars", "\x01\x02\x03", "", ErrEmptyDisplayName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeDisplayName(tc.raw)
			if !errors.Is(err, tc.wantErr) && tc.wantErr != nil {
				t.Fatalf("NormalizeDisplayName() err = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr == nil && err != nil {
				t.Fatalf("NormalizeDisplayName() unexpected err = %v", err)
			}
			if got != tc.want {
				t.Errorf("NormalizeDisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeDisplayNameTooLong(t *testing.T) {
	raw := strings.Repeat("a", 65)
	_, err := NormalizeDisplayName(raw)
	if !errors.Is(err, ErrDisplayNameTooLong) {
		t.Errorf("NormalizeDisplayName() err = %v, want ErrDisplayNameTooLong", err)
	}
}

func TestNormalizeDisplayNameExactlyMax(t *testing.T) {
	raw := strings.Repeat("a", 64)
	got, err := NormalizeDisplayName(raw)
	if err != nil {
		t.Fatalf("NormalizeDisplayName() unexpected err = %v", err)
	}
	if got != raw {
		t.Errorf("NormalizeDisplayName() = %q, want unchanged", got)
	}
}
