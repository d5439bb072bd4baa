package domain

import "testing"

func TestNewChannelID(t *testing.T) {
	got := NewChannelID("tenant-a", "room1")
	if got != "tenant-a:room1" {
		t.Errorf("NewChannelID() = %q, want tenant-a:room1", got)
	}
}

func TestUserKeyIsGuest(t *testing.T) {
	cases := []struct {
		key  UserKey
		want bool
	}{
		{"guest:sess-1", true},
		{"alice@example.com", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := tc.key.IsGuest(); got != tc.want {
			t.Errorf("IsGuest(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestNewRoomInitializesMaps(t *testing.T) {
	r := NewRoom("tenant-a", "room1")
	if r.ChannelID != "tenant-a:room1" {
		t.Errorf("ChannelID = %q, want tenant-a:room1", r.ChannelID)
	}
	if !r.IsEmpty() {
		t.Errorf("IsEmpty() = false on fresh room, want true")
	}
	if r.Clients == nil || r.PendingClients == nil || r.AllowedUserKeys == nil ||
		r.LockedAllowedUserKeys == nil || r.BlockedUserKeys == nil || r.AdminUserKeys == nil {
		t.Errorf("NewRoom left a map field nil")
	}
}

func TestRoomIsEmpty(t *testing.T) {
	r := NewRoom("tenant-a", "room1")
	r.Clients["u1#s1"] = &Participant{UserID: "u1#s1"}
	if r.IsEmpty() {
		t.Errorf("IsEmpty() = true with a participant present, want false")
	}
}

func TestPoliciesApply(t *testing.T) {
	p := Policies{}
	locked := true
	changed := p.Apply(PolicyFields{Locked: &locked})
	if !changed || !p.Locked {
		t.Fatalf("Apply() changed=%v locked=%v, want true,true", changed, p.Locked)
	}

	// applying the same value again reports no change.
	changed = p.Apply(PolicyFields{Locked: &locked})
	if changed {
		t.Errorf("Apply() with identical value reported changed=true")
	}

	// nil fields are left untouched.
	chatLocked := true
	changed = p.Apply(PolicyFields{ChatLocked: &chatLocked})
	if !changed || !p.ChatLocked || !p.Locked {
		t.Errorf("Apply() with partial update lost prior field: %+v", p)
	}
}

func TestModeCanBecomeAdmin(t *testing.T) {
	cases := []struct {
		mode Mode
		want bool
	}{
		{ModeMeeting, true},
		{ModeObserver, true},
		{ModeWebinarAttendee, false},
		{ModeGhost, false},
	}
	for _, tc := range cases {
		if got := tc.mode.CanBecomeAdmin(); got != tc.want {
			t.Errorf("CanBecomeAdmin(%q) = %v, want %v", tc.mode, got, tc.want)
		}
	}
}

func TestParticipantRoleIn(t *testing.T) {
	admins := map[UserKey]struct{}{"admin-key": {}}
	host := UserKey("host-key")

	cases := []struct {
		name string
		p    *Participant
		want Role
	}{
		{"host wins over admin set", &Participant{UserKey: "host-key", Mode: ModeMeeting}, RoleHost},
		{"admin set", &Participant{UserKey: "admin-key", Mode: ModeMeeting}, RoleAdmin},
		{"ghost", &Participant{UserKey: "u1", Mode: ModeGhost}, RoleGhost},
		{"webinar attendee", &Participant{UserKey: "u1", Mode: ModeWebinarAttendee}, RoleAttendee},
		{"observer", &Participant{UserKey: "u1", Mode: ModeObserver}, RoleAttendee},
		{"plain participant", &Participant{UserKey: "u1", Mode: ModeMeeting}, RoleParticipant},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.RoleIn(admins, host); got != tc.want {
				t.Errorf("RoleIn() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMediaSelectorMatches(t *testing.T) {
	cases := []struct {
		name     string
		selector MediaSelector
		key      ProducerKey
		want     bool
	}{
		{"empty selector matches everything", MediaSelector{}, ProducerKey{Kind: KindAudio, Type: TypeWebcam}, true},
		{"kind filter matches", MediaSelector{Kinds: []MediaKind{KindAudio}}, ProducerKey{Kind: KindAudio, Type: TypeWebcam}, true},
		{"kind filter rejects", MediaSelector{Kinds: []MediaKind{KindVideo}}, ProducerKey{Kind: KindAudio, Type: TypeWebcam}, false},
		{"type filter matches", MediaSelector{Types: []ProducerType{TypeScreen}}, ProducerKey{Kind: KindVideo, Type: TypeScreen}, true},
		{"type filter rejects", MediaSelector{Types: []ProducerType{TypeScreen}}, ProducerKey{Kind: KindVideo, Type: TypeWebcam}, false},
		{"both filters must match", MediaSelector{Kinds: []MediaKind{KindVideo}, Types: []ProducerType{TypeWebcam}}, ProducerKey{Kind: KindVideo, Type: TypeScreen}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.selector.Matches(tc.key); got != tc.want {
				t.Errorf("Matches() = %v, want %v", got, tc.want)
			}
		})
	}
}
