package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReservationEntry запись реестра: одна площадка, одна дата, один слот
// Уникальность (VenueID, Date, Slot) гарантирует БД
type ReservationEntry struct {
	ID         int64
	VenueID    int64
	Date       string
	Slot       int
	BookingID  *int64 // nil пока захват не привязан к бронированию
	ClaimToken uuid.UUID
	CreatedAt  time.Time
}

// IsLinked returns true once the entry belongs to a persisted booking
func (e *ReservationEntry) IsLinked() bool {
	return e.BookingID != nil
}

// IsExpired returns true for an unlinked entry older than ttl
func (e *ReservationEntry) IsExpired(now time.Time, ttl time.Duration) bool {
	return !e.IsLinked() && !e.CreatedAt.After(now.Add(-ttl))
}

// Claim результат успешного захвата слотов
type Claim struct {
	Token     uuid.UUID
	VenueID   int64
	Days      []SlotSet
	ClaimedAt time.Time
}

// SlotCount общее количество захваченных слотов
func (c *Claim) SlotCount() int {
	return CountSlots(c.Days)
}
