// Package fanout implements §4.11: typed notifications to rooms and
// administrators, with the per-channel ordering guarantee that events
// emitted by one logical operation are enqueued, in order, before the
// triggering call returns.
package fanout

// EventType enumerates the §4.11 state-mutation event family, plus the
// join-time and legacy events §6 references.
type EventType string

const (
	EventProducerClosed        EventType = "producerClosed"
	EventAdminProducerClosed   EventType = "admin:producerClosed"
	EventAdminMediaEnforced    EventType = "admin:mediaEnforced"
	EventAdminBulkEnforced     EventType = "admin:bulkMediaEnforced"
	EventRoomLockChanged       EventType = "roomLockChanged"
	EventChatLockChanged       EventType = "chatLockChanged"
	EventNoGuestsChanged       EventType = "noGuestsChanged"
	EventTTSDisabledChanged    EventType = "ttsDisabledChanged"
	EventDMStateChanged        EventType = "dmStateChanged"
	EventHostChanged           EventType = "hostChanged"
	EventAdminUsersChanged     EventType = "adminUsersChanged"
	EventPendingUsersSnapshot  EventType = "pendingUsersSnapshot"
	EventUserAdmitted          EventType = "userAdmitted"
	EventUserRejected          EventType = "userRejected"
	EventKicked                EventType = "kicked"
	EventHandRaisedSnapshot    EventType = "handRaisedSnapshot"
	EventAdminHandsCleared     EventType = "admin:handsCleared"
	EventAdminNotice           EventType = "adminNotice"
	EventRoomEnded             EventType = "roomEnded"
	EventServerRestarting      EventType = "serverRestarting"
	EventDisplayNameUpdated    EventType = "displayNameUpdated"
	EventJoinApproved          EventType = "joinApproved"
	EventJoinRejected          EventType = "joinRejected"
	EventJoinSuperseded        EventType = "joinSuperseded"
)

// Event is the versioned payload envelope (§9: "each event has a versioned
// payload schema with explicit optional fields; unknown fields are ignored
// by consumers").
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}
