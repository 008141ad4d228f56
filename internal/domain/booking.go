package domain

import (
	"fmt"
	"strings"
	"time"
)

// ApprovalState represents the approval state of a booking
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalRejected ApprovalState = "rejected"
)

// ParseApprovalState преобразует строку в ApprovalState
func ParseApprovalState(s string) (ApprovalState, error) {
	switch ApprovalState(strings.ToLower(strings.TrimSpace(s))) {
	case ApprovalPending:
		return ApprovalPending, nil
	case ApprovalApproved:
		return ApprovalApproved, nil
	case ApprovalRejected:
		return ApprovalRejected, nil
	default:
		return "", fmt.Errorf("%w: unknown state %q", ErrInvalidTransition, s)
	}
}

// allowedTransitions допустимые переходы статуса согласования
var allowedTransitions = map[ApprovalState][]ApprovalState{
	ApprovalPending:  {ApprovalApproved, ApprovalRejected},
	ApprovalApproved: {ApprovalRejected},
	ApprovalRejected: {ApprovalApproved},
}

// Booking represents a venue booking request
type Booking struct {
	ID int64

	// Заявитель (из токена, не из тела запроса)
	RequesterID    int64
	RequesterRole  Role
	RequesterEmail string

	VenueID   int64
	VenueName string // денормализовано для истории

	EventName      string
	Organizer      string
	Department     string
	Institution    string
	OrganizingClub *string
	Phone          string
	AltPhone       *string

	Schedule Schedule

	ApprovalState   ApprovalState
	RejectionReason *string
	Imported        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLive returns true if the booking holds ledger entries (pending or approved)
func (b *Booking) IsLive() bool {
	return b.ApprovalState == ApprovalPending || b.ApprovalState == ApprovalApproved
}

// CanTransitionTo returns true if the approval state may change to target
func (b *Booking) CanTransitionTo(target ApprovalState) bool {
	for _, s := range allowedTransitions[b.ApprovalState] {
		if s == target {
			return true
		}
	}
	return false
}

// ApplyApproval меняет статус согласования
// Для rejected обязательна непустая причина, approved сбрасывает причину
func (b *Booking) ApplyApproval(target ApprovalState, reason string) error {
	if !b.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.ApprovalState, target)
	}

	reason = strings.TrimSpace(reason)
	switch target {
	case ApprovalRejected:
		if reason == "" {
			return ErrRejectionReasonRequired
		}
		if len(reason) > MaxRejectionReasonLength {
			return fmt.Errorf("%w: at most %d characters", ErrRejectionReasonTooLong, MaxRejectionReasonLength)
		}
		b.RejectionReason = &reason
	case ApprovalApproved:
		b.RejectionReason = nil
	}

	b.ApprovalState = target
	return nil
}

// BookingsFilter фильтр для списков бронирований
type BookingsFilter struct {
	RequesterID *int64         // Только бронирования пользователя
	VenueID     *int64         // Только бронирования площадки
	State       *ApprovalState // Фильтр по статусу
	Department  *string        // Кафедра организатора, без учета регистра
	From        *time.Time     // Мероприятия, заканчивающиеся не раньше этой даты
	To          *time.Time     // Мероприятия, начинающиеся не позже этой даты
	Limit       int            // 0 = без ограничения
}
