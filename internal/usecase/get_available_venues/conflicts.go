package get_available_venues

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
)

// FindConflicts показывает, какие слоты диапазона уже заняты на площадке
// Только диагностика: ничего не захватывает
func (uc *UseCase) FindConflicts(ctx context.Context, req *ConflictsRequest) (*ConflictsResponse, error) {
	if req.VenueID <= 0 {
		return nil, fmt.Errorf("%w: venueId must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	set, err := domain.SlotsFor(req.Date, req.StartTime, req.EndTime, uc.granularity)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidGranularity) {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if set.IsEmpty() {
		return nil, fmt.Errorf("%w: start %s is not before end %s", ErrInvalidInput, req.StartTime, req.EndTime)
	}

	occupied, err := uc.ledger.FindConflicts(ctx, req.VenueID, set.Date, set.Slots)
	if err != nil {
		uc.logger.Error("FindConflicts: venue_id=%d, date=%s: %v", req.VenueID, set.Date, err)
		return nil, fmt.Errorf("%w: failed to find conflicts: %v", ErrInternal, err)
	}

	return &ConflictsResponse{
		VenueID:   req.VenueID,
		Date:      domain.CanonicalDate(req.Date),
		Requested: set.Slots,
		Occupied:  occupied,
	}, nil
}
