package notify

import "time"

// Kind тип события бронирования
type Kind string

const (
	KindRequested   Kind = "requested"
	KindApproved    Kind = "approved"
	KindRejected    Kind = "rejected"
	KindCancelled   Kind = "cancelled"
	KindRescheduled Kind = "rescheduled"
)

// Message уведомление о событии бронирования
// Subject и Body используются почтой, Event уходит в брокер как JSON
type Message struct {
	Kind    Kind
	To      []string
	Subject string
	Body    string
	Event   Event
}

// Event payload события для брокера сообщений
type Event struct {
	Kind            Kind      `json:"kind"`
	BookingID       int64     `json:"bookingId"`
	VenueID         int64     `json:"venueId"`
	VenueName       string    `json:"venueName"`
	EventName       string    `json:"eventName"`
	RequesterID     int64     `json:"requesterId"`
	ApprovalState   string    `json:"approvalState"`
	RejectionReason *string   `json:"rejectionReason,omitempty"`
	FirstDay        string    `json:"firstDay"`
	LastDay         string    `json:"lastDay"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	OccurredAt      time.Time `json:"occurredAt"`
}
