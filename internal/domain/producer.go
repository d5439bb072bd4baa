package domain

// MediaKind is the media type of a produced track.
type MediaKind string

const (
	KindAudio MediaKind = "audio"
	KindVideo MediaKind = "video"
)

// ProducerType distinguishes a webcam feed from a screen-share feed.
type ProducerType string

const (
	TypeWebcam ProducerType = "webcam"
	TypeScreen ProducerType = "screen"
)

// ProducerKey identifies one of a participant's producer slots (I7: at most
// one producer per (kind, type) tuple).
type ProducerKey struct {
	Kind MediaKind
	Type ProducerType
}

// ProducerID is the media-plane-issued identifier for a produced track.
type ProducerID string

// ProducerRef is what the room state machine tracks per producer; the actual
// media resources live in the external media plane (§1 scope).
type ProducerRef struct {
	ID   ProducerID
	Key  ProducerKey
	Paused bool
}

// MediaSelector filters producers by kind/type; a nil/empty field matches
// everything in that dimension (§4.5 closeClientProducers).
type MediaSelector struct {
	Kinds []MediaKind
	Types []ProducerType
}

func (s MediaSelector) Matches(key ProducerKey) bool {
	if len(s.Kinds) > 0 && !containsKind(s.Kinds, key.Kind) {
		return false
	}
	if len(s.Types) > 0 && !containsType(s.Types, key.Type) {
		return false
	}
	return true
}

func containsKind(ks []MediaKind, k MediaKind) bool {
	for _, x := range ks {
		if x == k {
			return true
		}
	}
	return false
}

func containsType(ts []ProducerType, t ProducerType) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}
