package client

import (
	"sync"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
)

// StatusChangeListener is called after the local status changed, outside the holder's lock.
type StatusChangeListener func(prev, next domain.InstanceStatus)

// InstanceHolder owns the record of the local instance. Every change stamps a new
// LastDirtyTimestamp and leaves the record dirty until a registration carrying that timestamp
// succeeds.
type InstanceHolder struct {
	clock interfaces.TimeProvider

	mu        sync.Mutex
	info      *domain.InstanceInfo
	dirty     bool
	listeners []StatusChangeListener
}

// NewInstanceHolder takes a copy of in. The record starts dirty so the first push registers it.
func NewInstanceHolder(in *domain.InstanceInfo, clock interfaces.TimeProvider) *InstanceHolder {
	info := helpers.NilPanic(in, "client.instance_holder.go: instance is required").Clone()
	h := &InstanceHolder{
		clock: helpers.NilPanic(clock, "client.instance_holder.go: clock is required"),
		info:  info,
		dirty: true,
	}
	info.MarkDirty(h.clock.Now())
	return h
}

// AddStatusListener registers fn for status changes.
func (h *InstanceHolder) AddStatusListener(fn StatusChangeListener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Instance returns a copy of the current record.
func (h *InstanceHolder) Instance() *domain.InstanceInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.info.Clone()
}

// Status returns the current status.
func (h *InstanceHolder) Status() domain.InstanceStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.info.Status
}

// SetStatus changes the status. Returns false when it already was status.
func (h *InstanceHolder) SetStatus(status domain.InstanceStatus) bool {
	h.mu.Lock()
	prev := h.info.Status
	if prev == status {
		h.mu.Unlock()
		return false
	}
	next := h.info.Clone()
	next.Status = status
	next.MarkDirty(h.clock.Now())
	h.info = next
	h.dirty = true
	listeners := append([]StatusChangeListener(nil), h.listeners...)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(prev, status)
	}
	return true
}

// Update applies fn to a copy of the record and marks it dirty.
func (h *InstanceHolder) Update(fn func(in *domain.InstanceInfo)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	next := h.info.Clone()
	fn(next)
	next.MarkDirty(h.clock.Now())
	h.info = next
	h.dirty = true
}

// MarkDirty forces the next push to register the record again.
func (h *InstanceHolder) MarkDirty() {
	h.mu.Lock()
	defer h.mu.Unlock()
	next := h.info.Clone()
	next.MarkDirty(h.clock.Now())
	h.info = next
	h.dirty = true
}

// DirtyTimestamp returns the LastDirtyTimestamp and whether the record still needs a
// registration.
func (h *InstanceHolder) DirtyTimestamp() (int64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.info.LastDirtyTimestamp, h.dirty
}

// UnsetDirty clears the dirty flag if no change happened after timestamp.
func (h *InstanceHolder) UnsetDirty(timestamp int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.info.LastDirtyTimestamp <= timestamp {
		h.dirty = false
	}
}
