// Package storage persists invocation audit events.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const previewLimit = 256

// EventWriter is the interface for writing invocation events.
// Write() must NEVER block the caller.
type EventWriter interface {
	Write(event *InvocationEvent)
	Close()
}

// InvocationEvent records one aggregation pass or direct invocation.
type InvocationEvent struct {
	RequestID      string
	Timestamp      time.Time
	MessagePreview string
	MessageSHA256  string
	MessageBytes   int32
	Providers      []string
	Operations     []string
	ErrorKinds     []string // "" for successful providers, aligned with Providers
	LatencyMs      float32
	Source         string // "message" or "invoke"
}

// NewInvocationEvent builds the message-derived fields: a bounded preview for
// operators plus a full-content hash so the raw text never needs storing.
func NewInvocationEvent(requestID, message, source string) *InvocationEvent {
	sum := sha256.Sum256([]byte(message))
	preview := message
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
	}
	return &InvocationEvent{
		RequestID:      requestID,
		Timestamp:      time.Now().UTC(),
		MessagePreview: preview,
		MessageSHA256:  hex.EncodeToString(sum[:]),
		MessageBytes:   int32(len(message)),
		Source:         source,
	}
}
