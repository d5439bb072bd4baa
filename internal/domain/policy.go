package domain

// Policies are the room-wide moderation flags §3 lists.
type Policies struct {
	Locked                    bool `json:"locked"`
	ChatLocked                bool `json:"chatLocked"`
	NoGuests                  bool `json:"noGuests"`
	TTSDisabled               bool `json:"ttsDisabled"`
	DMEnabled                 bool `json:"dmEnabled"`
	RequiresMeetingInviteCode bool `json:"requiresMeetingInviteCode"`
}

// PolicyFields carries a partial update; nil fields are left untouched
// (§4.3 setPolicy applies only the fields present).
type PolicyFields struct {
	Locked                    *bool `json:"locked,omitempty"`
	ChatLocked                *bool `json:"chatLocked,omitempty"`
	NoGuests                  *bool `json:"noGuests,omitempty"`
	TTSDisabled               *bool `json:"ttsDisabled,omitempty"`
	DMEnabled                 *bool `json:"dmEnabled,omitempty"`
	RequiresMeetingInviteCode *bool `json:"requiresMeetingInviteCode,omitempty"`
}

// Apply mutates p in place per the non-nil fields of f, returning whether
// anything actually changed.
func (p *Policies) Apply(f PolicyFields) bool {
	changed := false
	apply := func(dst *bool, src *bool) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = true
		}
	}
	apply(&p.Locked, f.Locked)
	apply(&p.ChatLocked, f.ChatLocked)
	apply(&p.NoGuests, f.NoGuests)
	apply(&p.TTSDisabled, f.TTSDisabled)
	apply(&p.DMEnabled, f.DMEnabled)
	apply(&p.RequiresMeetingInviteCode, f.RequiresMeetingInviteCode)
	return changed
}
