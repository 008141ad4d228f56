package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-HallBookingService/pkg/types"
)

// SlotSet набор индексов слотов одного календарного дня
// Слот i покрывает минуты [i*G, (i+1)*G) от полуночи UTC
type SlotSet struct {
	Date  string // YYYY-MM-DD
	Slots []int
}

// IsEmpty returns true when the set has no slots
func (s SlotSet) IsEmpty() bool {
	return len(s.Slots) == 0
}

// ValidateGranularity проверяет, что шаг делит сутки без остатка
func ValidateGranularity(granularity int) error {
	if granularity <= 0 || granularity > types.MinutesPerDay || types.MinutesPerDay%granularity != 0 {
		return fmt.Errorf("%w: %d", ErrInvalidGranularity, granularity)
	}
	return nil
}

// SlotsFor переводит диапазон времени в индексы слотов
// Для [s, e) возвращает floor(s/G) .. ceil(e/G)-1, при s >= e набор пуст
func SlotsFor(date time.Time, start, end types.TimeString, granularity int) (SlotSet, error) {
	set := SlotSet{Date: CanonicalDate(date).Format(DateFormat)}

	if err := ValidateGranularity(granularity); err != nil {
		return set, err
	}

	startMin, err := start.Minutes()
	if err != nil {
		return set, fmt.Errorf("%w: start: %v", ErrInvalidRange, err)
	}
	endMin, err := end.Minutes()
	if err != nil {
		return set, fmt.Errorf("%w: end: %v", ErrInvalidRange, err)
	}

	if startMin >= endMin {
		return set, nil
	}

	first := startMin / granularity
	last := (endMin+granularity-1)/granularity - 1

	set.Slots = make([]int, 0, last-first+1)
	for i := first; i <= last; i++ {
		set.Slots = append(set.Slots, i)
	}

	return set, nil
}

// ExpandSchedule возвращает по одному SlotSet на каждый день расписания
func ExpandSchedule(schedule Schedule, granularity int) ([]SlotSet, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	days := schedule.Days()
	sets := make([]SlotSet, 0, len(days))
	for _, day := range days {
		set, err := SlotsFor(day, schedule.StartTime, schedule.EndTime, granularity)
		if err != nil {
			return nil, err
		}
		if set.IsEmpty() {
			return nil, fmt.Errorf("%w: %s-%s", ErrInvalidRange, schedule.StartTime, schedule.EndTime)
		}
		sets = append(sets, set)
	}

	return sets, nil
}

// SlotBounds возвращает время начала и конца слота
func SlotBounds(slot, granularity int) (types.TimeString, types.TimeString, error) {
	start, err := types.NewTimeStringFromMinutes(slot * granularity)
	if err != nil {
		return "", "", err
	}
	end, err := types.NewTimeStringFromMinutes((slot + 1) * granularity)
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}

// Overlaps returns true if both sets are on the same day and share a slot
func Overlaps(a, b SlotSet) bool {
	if a.Date != b.Date {
		return false
	}
	seen := make(map[int]struct{}, len(a.Slots))
	for _, s := range a.Slots {
		seen[s] = struct{}{}
	}
	for _, s := range b.Slots {
		if _, ok := seen[s]; ok {
			return true
		}
	}
	return false
}

// CountSlots общее количество слотов во всех наборах
func CountSlots(sets []SlotSet) int {
	total := 0
	for _, s := range sets {
		total += len(s.Slots)
	}
	return total
}
