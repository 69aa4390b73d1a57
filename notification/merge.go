// Package notification turns registry changes into ordered change streams: the buffer-marker
// merge stage, the fan-in of several streams, serial per-channel task queues and the broker that
// serves interest subscriptions.
package notification

import "myregistry/domain"

// BufferState is the state of one merge key.
type BufferState int

const (
	// Idle means no buffer is open for the key.
	Idle BufferState = iota
	// Open means a BufferStart was seen for the key and its BufferEnd was not.
	Open
)

func (s BufferState) String() string {
	if s == Open {
		return "Open"
	}
	return "Idle"
}

// MergeKeyFunc maps a buffer marker to the key its buffer is tracked under. Markers for which it
// returns false are dropped.
type MergeKeyFunc func(n domain.ChangeNotification) (string, bool)

const noSourceKey = "<none>"

// SourceKey tracks buffers per replica: every connection (Source.ID) of one origin and name
// shares a key. Markers without a source share the key "<none>".
func SourceKey(n domain.ChangeNotification) (string, bool) {
	if n.Source.IsZero() {
		return noSourceKey, true
	}
	return string(n.Source.Origin) + ":" + n.Source.Name, true
}

// InterestKey tracks buffers per interest, for streams of several subscriptions merged into one.
func InterestKey(n domain.ChangeNotification) (string, bool) {
	return n.Interest.String(), true
}

// BufferMerger collapses the buffer markers of several streams into a single outer
// BufferStart...BufferEnd window.
//
// A BufferStart opens its key; the unified BufferStart is emitted only when no key was open
// before. A BufferEnd closes its key; the unified BufferEnd is emitted once every key is Idle.
// All other markers are dropped. Data notifications pass through unchanged. Emitted markers
// carry the merged interest and no source.
//
// Not safe for concurrent use: Merge drives it from a single goroutine.
type BufferMerger struct {
	interest domain.Interest
	key      MergeKeyFunc
	states   map[string]BufferState
	open     int
}

// NewBufferMerger creates a merger that emits markers for interest. A nil key uses SourceKey.
func NewBufferMerger(interest domain.Interest, key MergeKeyFunc) *BufferMerger {
	if key == nil {
		key = SourceKey
	}
	return &BufferMerger{
		interest: interest,
		key:      key,
		states:   make(map[string]BufferState),
	}
}

// Apply feeds one notification through the merger. It returns the notification to forward and
// true, or false when the notification is absorbed.
func (m *BufferMerger) Apply(n domain.ChangeNotification) (domain.ChangeNotification, bool) {
	if !n.IsMarker() {
		return n, true
	}
	key, ok := m.key(n)
	if !ok {
		return domain.ChangeNotification{}, false
	}
	switch n.Kind {
	case domain.KindBufferStart:
		if m.states[key] == Open {
			return domain.ChangeNotification{}, false
		}
		m.states[key] = Open
		m.open++
		if m.open == 1 {
			return domain.BufferStart(m.interest, domain.Source{}), true
		}
		return domain.ChangeNotification{}, false
	default:
		if m.states[key] == Open {
			m.open--
		}
		delete(m.states, key)
		if m.open == 0 {
			return domain.BufferEnd(m.interest, domain.Source{}), true
		}
		return domain.ChangeNotification{}, false
	}
}

// State returns the buffer state of key.
func (m *BufferMerger) State(key string) BufferState {
	return m.states[key]
}

// Buffering reports whether any key has an open buffer.
func (m *BufferMerger) Buffering() bool {
	return m.open > 0
}
