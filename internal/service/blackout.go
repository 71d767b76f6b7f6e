package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MacDavicK/TriptiBunglow-Website/internal/model"
)

// BlockDates places admin blackouts on the given days.  Blackouts never
// expire and collide with guest holds the same way holds collide with
// each other.
func (s *BookingService) BlockDates(ctx context.Context, propertyID, adminID uint64, days []time.Time) (int, error) {
	if len(days) == 0 {
		return 0, &ValidationError{Field: "dates", Message: "at least one date is required"}
	}
	if _, err := s.props.GetByID(ctx, propertyID); err != nil {
		return 0, err
	}
	normalized := make([]time.Time, len(days))
	for i, d := range days {
		normalized[i] = midnightUTC(d)
	}
	n, err := s.ledger.Block(ctx, propertyID, normalized)
	if err != nil {
		return 0, err
	}
	s.audit.Record(ctx, model.AuditLog{
		Action:      "dates.blocked",
		EntityType:  "DateHold",
		EntityID:    propertyID,
		PerformedBy: fmt.Sprintf("admin:%d", adminID),
		Metadata:    map[string]any{"count": n},
	})
	return n, nil
}

// UnblockDate removes one blackout row.
func (s *BookingService) UnblockDate(ctx context.Context, holdID, adminID uint64) error {
	if err := s.ledger.Unblock(ctx, holdID); err != nil {
		return err
	}
	s.audit.Record(ctx, model.AuditLog{
		Action:      "dates.unblocked",
		EntityType:  "DateHold",
		EntityID:    holdID,
		PerformedBy: fmt.Sprintf("admin:%d", adminID),
	})
	return nil
}

// ListBlockedDates returns the current blackouts, optionally scoped to a
// property.
func (s *BookingService) ListBlockedDates(ctx context.Context, propertyID uint64) ([]model.DateHold, error) {
	return s.ledger.ListBlocked(ctx, propertyID)
}
