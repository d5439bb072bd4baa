// Package domain contains the SFU control plane's entities without behavior
// beyond invariant-preserving construction and value semantics.
package domain

import "strings"

// UserKey is the caller's stable identity: an email if present, else a
// stable user identifier. Access lists (allow/block) are indexed by it.
type UserKey string

// UserID is a session-scoped identity, unique to one live session of a
// UserKey within a room: "{userKey}#{sessionId}".
type UserID string

// SessionID is the per-connection session component of a UserID.
type SessionID string

const guestPrefix = "guest:"

// IsGuest reports whether the key was derived from an unauthenticated caller.
func (k UserKey) IsGuest() bool {
	return strings.HasPrefix(string(k), guestPrefix)
}

// ChannelID is the tenant-qualified, process-global room key "{clientId}:{id}".
type ChannelID string

// ClientID identifies a tenant.
type ClientID string

// RoomID is a tenant-scoped room name.
type RoomID string

func NewChannelID(clientID ClientID, roomID RoomID) ChannelID {
	return ChannelID(string(clientID) + ":" + string(roomID))
}
