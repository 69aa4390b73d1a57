package domain

// NotificationKind tags a ChangeNotification.
type NotificationKind int

const (
	KindAdd NotificationKind = iota + 1
	KindModify
	KindDelete
	KindBufferStart
	KindBufferEnd
)

func (k NotificationKind) String() string {
	switch k {
	case KindAdd:
		return "Add"
	case KindModify:
		return "Modify"
	case KindDelete:
		return "Delete"
	case KindBufferStart:
		return "BufferStart"
	case KindBufferEnd:
		return "BufferEnd"
	default:
		return "Unknown"
	}
}

// ChangeNotification is one element of a registry change stream.
//
// Add, Modify and Delete carry an Instance (Modify may also list the Deltas against the
// previous version). BufferStart and BufferEnd carry the Interest and Source of a logically
// atomic batch such as a full snapshot.
type ChangeNotification struct {
	Kind     NotificationKind
	Instance *InstanceInfo
	Deltas   []Delta
	Interest Interest
	Source   Source
}

// IsMarker reports whether the notification is a buffer marker.
func (n ChangeNotification) IsMarker() bool {
	return n.Kind == KindBufferStart || n.Kind == KindBufferEnd
}

// AddNotification builds an Add.
func AddNotification(in *InstanceInfo, source Source) ChangeNotification {
	return ChangeNotification{Kind: KindAdd, Instance: in, Source: source}
}

// ModifyNotification builds a Modify with the deltas between prev and next.
func ModifyNotification(prev, next *InstanceInfo, source Source) ChangeNotification {
	return ChangeNotification{Kind: KindModify, Instance: next, Deltas: Diff(prev, next), Source: source}
}

// DeleteNotification builds a Delete.
func DeleteNotification(in *InstanceInfo, source Source) ChangeNotification {
	return ChangeNotification{Kind: KindDelete, Instance: in, Source: source}
}

// BufferStart opens a batch.
func BufferStart(interest Interest, source Source) ChangeNotification {
	return ChangeNotification{Kind: KindBufferStart, Interest: interest, Source: source}
}

// BufferEnd closes a batch.
func BufferEnd(interest Interest, source Source) ChangeNotification {
	return ChangeNotification{Kind: KindBufferEnd, Interest: interest, Source: source}
}
