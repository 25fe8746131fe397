package audit

import (
	"context"
	"time"
)

// Clock returns the current instant used for audit timestamps.
type Clock func() time.Time

// UTCNow is the default clock.
func UTCNow() time.Time { return time.Now().UTC() }

// Stamper writes audit metadata onto entities according to the capabilities they expose.
// Stamping is total: an entity lacking a capability is left untouched.
type Stamper struct {
	now Clock
}

// Option configures a Stamper.
type Option func(*Stamper)

// WithClock swaps the time source.
func WithClock(clock Clock) Option {
	return func(s *Stamper) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewStamper builds a stamper reading UTC wall-clock time by default.
func NewStamper(opts ...Option) *Stamper {
	s := &Stamper{now: UTCNow}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Created stamps the creation time and creator on creation-audited entities.
func (s *Stamper) Created(ctx context.Context, v any) bool {
	entity, ok := v.(CreationAudited)
	if !ok {
		return false
	}
	entity.StampCreated(s.clock()(), ActorFrom(ctx))
	return true
}

// Modified stamps the modification time and modifier on modification-audited entities.
func (s *Stamper) Modified(ctx context.Context, v any) bool {
	entity, ok := v.(ModificationAudited)
	if !ok {
		return false
	}
	entity.StampModified(s.clock()(), ActorFrom(ctx))
	return true
}

// Deleted flags deletion-audited entities as soft deleted.
func (s *Stamper) Deleted(v any) bool {
	entity, ok := v.(DeletionAudited)
	if !ok {
		return false
	}
	entity.MarkDeleted()
	return true
}

func (s *Stamper) clock() Clock {
	if s == nil || s.now == nil {
		return UTCNow
	}
	return s.now
}
