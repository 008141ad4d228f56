package domain

import "time"

// Параметры реестра резервирований
const (
	DefaultSlotGranularityMinutes = 15
	DefaultClaimTTL               = 120 * time.Second
	DefaultSweepInterval          = 30 * time.Second
)

// Default booking policy values
const (
	DefaultAdvanceBookingDays      = 0 // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 0
	DefaultMaxSpanDays             = 180
)

// Business validation constants
const (
	MinAdvanceBookingDays    = 0
	MaxAdvanceBookingDays    = 730
	MinBookingNoticeMinutes  = 0
	MaxBookingNoticeMinutes  = 10080 // 1 week
	MinSpanDays              = 1
	MaxSpanDays              = 366
	MaxRejectionReasonLength = 500
	MaxEventNameLength       = 200
	MaxImportRows            = 1000
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
