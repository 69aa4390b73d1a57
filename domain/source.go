package domain

import (
	"fmt"
	"strings"
)

// Origin tells where an update came from.
type Origin string

const (
	OriginLocal      Origin = "LOCAL"
	OriginReplicated Origin = "REPLICATED"
)

// Source identifies the origin of an update: a local client or a named replica. ID grows
// with every new replication connection from the same replica so a receiver can tell a
// reconnect (replay needed) from a continuation.
type Source struct {
	Origin Origin
	Name   string
	ID     int64
}

// LocalSource is the source of direct client traffic on the node called name.
func LocalSource(name string) Source {
	return Source{Origin: OriginLocal, Name: name}
}

// ReplicatedSource is the source of traffic replayed by the peer called name.
func ReplicatedSource(name string) Source {
	return Source{Origin: OriginReplicated, Name: name}
}

// IsZero reports whether no source is set.
func (s Source) IsZero() bool {
	return s.Origin == "" && s.Name == "" && s.ID == 0
}

// IsReplication reports whether the update was replayed by a peer.
func (s Source) IsReplication() bool {
	return s.Origin == OriginReplicated
}

func (s Source) String() string {
	if s.IsZero() {
		return "<none>"
	}
	var b strings.Builder
	b.WriteString(string(s.Origin))
	if s.Name != "" {
		b.WriteString(":")
		b.WriteString(s.Name)
	}
	if s.ID != 0 {
		fmt.Fprintf(&b, "#%d", s.ID)
	}
	return b.String()
}

// SourceMatcher selects sources.
type SourceMatcher func(Source) bool

// MatchOriginAndName matches every connection of one replica regardless of its ID.
func MatchOriginAndName(origin Origin, name string) SourceMatcher {
	return func(s Source) bool {
		return s.Origin == origin && s.Name == name
	}
}

// MatchOrigin matches every source with the given origin.
func MatchOrigin(origin Origin) SourceMatcher {
	return func(s Source) bool {
		return s.Origin == origin
	}
}
