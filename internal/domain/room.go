package domain

// Room is the pure data model of §3. All mutation happens through
// internal/room's write-guarded state machine; this struct never locks
// itself.
type Room struct {
	ID        RoomID
	ChannelID ChannelID
	ClientID  ClientID

	Clients      map[UserID]*Participant
	UserKeysByID map[UserID]UserKey

	PendingClients map[UserKey]*PendingEntry

	AllowedUserKeys       map[UserKey]struct{}
	LockedAllowedUserKeys map[UserKey]struct{}
	BlockedUserKeys       map[UserKey]struct{}

	AdminUserKeys map[UserKey]struct{}
	HostUserKey   UserKey

	Policies Policies

	ScreenShareProducerID ProducerID
	HasScreenShare        bool

	HandRaisedByUserID []UserID // ordered set

	DisplayNamesByUserKey map[UserKey]string

	PendingDisconnects map[UserID]struct{}
}

func NewRoom(clientID ClientID, id RoomID) *Room {
	return &Room{
		ID:                    id,
		ChannelID:             NewChannelID(clientID, id),
		ClientID:              clientID,
		Clients:               make(map[UserID]*Participant),
		UserKeysByID:          make(map[UserID]UserKey),
		PendingClients:        make(map[UserKey]*PendingEntry),
		AllowedUserKeys:       make(map[UserKey]struct{}),
		LockedAllowedUserKeys: make(map[UserKey]struct{}),
		BlockedUserKeys:       make(map[UserKey]struct{}),
		AdminUserKeys:         make(map[UserKey]struct{}),
		DisplayNamesByUserKey: make(map[UserKey]string),
		PendingDisconnects:    make(map[UserID]struct{}),
	}
}

// IsEmpty reports whether the room has no live participants (part of the
// room-destruction lifecycle rule in §3).
func (r *Room) IsEmpty() bool {
	return len(r.Clients) == 0
}
