package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
)

// BookingNotifier формирует уведомления о бронированиях и ставит их в очередь
// Никогда не возвращает ошибку: доставка не влияет на результат операции
type BookingNotifier struct {
	queue Enqueuer
	log   Logger
	now   func() time.Time
}

// NewBookingNotifier создает новый экземпляр уведомителя о бронированиях
func NewBookingNotifier(queue Enqueuer, log Logger) *BookingNotifier {
	return &BookingNotifier{queue: queue, log: log, now: time.Now}
}

// BookingRequested новая заявка, письмо ответственному за площадку
func (n *BookingNotifier) BookingRequested(b *domain.Booking, ownerEmail string) {
	subject := "New Booking Request"
	if b.ApprovalState == domain.ApprovalApproved {
		subject = "New Booking (auto-approved)"
	}

	var body strings.Builder
	fmt.Fprintf(&body, "A booking for %s has been submitted.\n\n", b.VenueName)
	writeDetails(&body, b)
	if b.ApprovalState == domain.ApprovalPending {
		body.WriteString("\nThe request is waiting for your approval.\n")
	}

	n.enqueue(KindRequested, b, ownerEmail, subject, body.String())
}

// BookingApproved заявка согласована, письмо заявителю
func (n *BookingNotifier) BookingApproved(b *domain.Booking) {
	var body strings.Builder
	fmt.Fprintf(&body, "Your booking request #%d has been approved.\n\n", b.ID)
	writeDetails(&body, b)

	n.enqueue(KindApproved, b, b.RequesterEmail, "Booking Request Approved", body.String())
}

// BookingRejected заявка отклонена, письмо заявителю с причиной
func (n *BookingNotifier) BookingRejected(b *domain.Booking) {
	var body strings.Builder
	fmt.Fprintf(&body, "Your booking request #%d has been rejected.\n\n", b.ID)
	if b.RejectionReason != nil {
		fmt.Fprintf(&body, "Reason: %s\n\n", *b.RejectionReason)
	}
	writeDetails(&body, b)

	n.enqueue(KindRejected, b, b.RequesterEmail, "Booking Request Rejected", body.String())
}

// BookingCancelled бронирование удалено, письмо заявителю
func (n *BookingNotifier) BookingCancelled(b *domain.Booking) {
	var body strings.Builder
	fmt.Fprintf(&body, "Booking #%d has been cancelled and the venue released.\n\n", b.ID)
	writeDetails(&body, b)

	n.enqueue(KindCancelled, b, b.RequesterEmail, "Booking Cancelled", body.String())
}

// BookingRescheduled расписание бронирования изменено, письмо заявителю
func (n *BookingNotifier) BookingRescheduled(b *domain.Booking) {
	var body strings.Builder
	fmt.Fprintf(&body, "Booking #%d has been rescheduled.\n\n", b.ID)
	writeDetails(&body, b)

	n.enqueue(KindRescheduled, b, b.RequesterEmail, "Booking Rescheduled", body.String())
}

func (n *BookingNotifier) enqueue(kind Kind, b *domain.Booking, to, subject, body string) {
	to = strings.TrimSpace(to)
	if to == "" {
		n.log.Warn("BookingNotifier: no recipient for %s notification, booking_id=%d", kind, b.ID)
		return
	}

	n.queue.Enqueue(Message{
		Kind:    kind,
		To:      []string{to},
		Subject: subject,
		Body:    body,
		Event:   newEvent(kind, b, n.now()),
	})
}

func newEvent(kind Kind, b *domain.Booking, at time.Time) Event {
	return Event{
		Kind:            kind,
		BookingID:       b.ID,
		VenueID:         b.VenueID,
		VenueName:       b.VenueName,
		EventName:       b.EventName,
		RequesterID:     b.RequesterID,
		ApprovalState:   string(b.ApprovalState),
		RejectionReason: b.RejectionReason,
		FirstDay:        formatDay(b.Schedule.FirstDay()),
		LastDay:         formatDay(b.Schedule.LastDay()),
		StartTime:       b.Schedule.StartTime.String(),
		EndTime:         b.Schedule.EndTime.String(),
		OccurredAt:      at.UTC(),
	}
}

func writeDetails(sb *strings.Builder, b *domain.Booking) {
	fmt.Fprintf(sb, "Event: %s\n", b.EventName)
	fmt.Fprintf(sb, "Venue: %s\n", b.VenueName)
	if b.OrganizingClub != nil && *b.OrganizingClub != "" {
		fmt.Fprintf(sb, "Organizing club: %s\n", *b.OrganizingClub)
	}
	fmt.Fprintf(sb, "Organizer: %s\n", b.Organizer)
	fmt.Fprintf(sb, "Institution: %s\n", b.Institution)
	fmt.Fprintf(sb, "Department: %s\n", b.Department)
	fmt.Fprintf(sb, "When: %s, %s-%s\n", scheduleDates(b.Schedule), b.Schedule.StartTime, b.Schedule.EndTime)
	fmt.Fprintf(sb, "Booking ID: %d\n", b.ID)
}

func scheduleDates(s domain.Schedule) string {
	first, last := formatDay(s.FirstDay()), formatDay(s.LastDay())
	if s.Kind != domain.DateKindMultiDay {
		return first
	}
	if s.Weekday != nil {
		return fmt.Sprintf("every %s from %s to %s", *s.Weekday, first, last)
	}
	return fmt.Sprintf("%s to %s", first, last)
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(domain.DateFormat)
}
