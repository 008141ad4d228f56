package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
	policyRepo "github.com/m04kA/SMC-HallBookingService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-HallBookingService/internal/integrations/venuedirectory"
	"github.com/m04kA/SMC-HallBookingService/internal/service/policy/models"
)

// Service сервис политик бронирования
type Service struct {
	policyRepo PolicyRepository
	venues     VenueDirectory
	logger     Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(policyRepo PolicyRepository, venues VenueDirectory, logger Logger) *Service {
	return &Service{
		policyRepo: policyRepo,
		venues:     venues,
		logger:     logger,
	}
}

// Resolve возвращает действующую политику площадки
// Приоритет: площадка > глобальная > встроенные значения по умолчанию
func (s *Service) Resolve(ctx context.Context, venueID int64) (*domain.BookingPolicy, error) {
	return s.resolve(ctx, &venueID)
}

// GetEffective получает действующую политику для отображения
// Публичный метод, venueID == nil означает глобальный уровень
func (s *Service) GetEffective(ctx context.Context, venueID *int64) (*models.PolicyResponse, error) {
	policy, err := s.resolve(ctx, venueID)
	if err != nil {
		return nil, err
	}

	resp := models.FromDomainPolicy(policy)
	s.logger.Info("GetEffective: venue=%v resolved to %s policy", venueID, resp.Level)
	return resp, nil
}

// Upsert создает или частично обновляет политику уровня
// Глобальную политику меняет только администратор, политику площадки - администратор или ответственный
func (s *Service) Upsert(ctx context.Context, req *models.UpsertPolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Upsert: venue=%v by user=%d role=%s", req.VenueID, req.Identity.UserID, req.Identity.Role)

	// 1. Проверяем права доступа
	if err := s.authorize(ctx, "Upsert", req.Identity, req.VenueID); err != nil {
		return nil, err
	}

	// 2. Получаем существующую политику уровня
	existing, err := s.policyRepo.GetByVenue(ctx, req.VenueID)
	if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
		s.logger.Error("Upsert: repository error: %v", err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	// 3. Новая политика наследует действующие значения
	target := existing
	if target == nil {
		inherited, err := s.resolve(ctx, req.VenueID)
		if err != nil {
			return nil, err
		}
		copied := *inherited
		copied.ID = 0
		copied.VenueID = req.VenueID
		target = &copied
	}

	req.ApplyToPolicy(target)

	// 4. Валидируем
	if err := validatePolicy(target); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	// 5. Сохраняем
	var saved *domain.BookingPolicy
	if existing == nil {
		saved, err = s.policyRepo.Create(ctx, target)
	} else {
		saved, err = s.policyRepo.Update(ctx, existing.ID, target)
	}
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return nil, ErrPolicyNotFound
		}
		s.logger.Error("Upsert: repository error: %v", err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: saved policy id=%d for venue=%v", saved.ID, req.VenueID)
	return models.FromDomainPolicy(saved), nil
}

// Delete удаляет политику уровня, после чего действует вышестоящая
func (s *Service) Delete(ctx context.Context, req *models.DeletePolicyRequest) error {
	s.logger.Info("Delete: venue=%v by user=%d", req.VenueID, req.Identity.UserID)

	if err := s.authorize(ctx, "Delete", req.Identity, req.VenueID); err != nil {
		return err
	}

	existing, err := s.policyRepo.GetByVenue(ctx, req.VenueID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Warn("Delete: no policy stored for venue=%v", req.VenueID)
			return ErrPolicyNotFound
		}
		s.logger.Error("Delete: repository error: %v", err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	if err := s.policyRepo.Delete(ctx, existing.ID); err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return ErrPolicyNotFound
		}
		s.logger.Error("Delete: repository error for policy id=%d: %v", existing.ID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted policy id=%d", existing.ID)
	return nil
}

// Вспомогательные методы

func (s *Service) resolve(ctx context.Context, venueID *int64) (*domain.BookingPolicy, error) {
	policy, err := s.policyRepo.GetWithHierarchy(ctx, venueID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return domain.DefaultBookingPolicy(), nil
		}
		s.logger.Error("Resolve: repository error for venue=%v: %v", venueID, err)
		return nil, fmt.Errorf("%w: Resolve - repository error: %v", ErrInternal, err)
	}
	return policy, nil
}

func (s *Service) authorize(ctx context.Context, op string, identity domain.Identity, venueID *int64) error {
	if identity.IsAdmin() {
		return nil
	}
	if venueID == nil {
		s.logger.Warn("%s: user=%d is not allowed to change the global policy", op, identity.UserID)
		return ErrAccessDenied
	}

	venue, err := s.venues.GetVenue(ctx, *venueID)
	if err != nil {
		if errors.Is(err, venuedirectory.ErrVenueNotFound) {
			s.logger.Warn("%s: venue id=%d not found", op, *venueID)
			return ErrVenueNotFound
		}
		s.logger.Error("%s: failed to get venue id=%d: %v", op, *venueID, err)
		return fmt.Errorf("%w: failed to get venue: %v", ErrInternal, err)
	}

	if !identity.CanManageVenue(venue.OwnerID) {
		s.logger.Warn("%s: user=%d is not staff of venue=%d", op, identity.UserID, *venueID)
		return ErrAccessDenied
	}
	return nil
}

// validatePolicy валидирует параметры политики
func validatePolicy(p *domain.BookingPolicy) error {
	for _, role := range p.AutoApproveRoles {
		if _, err := domain.ParseRole(role); err != nil {
			return fmt.Errorf("%w: autoApproveRoles: %v", ErrInvalidInput, err)
		}
	}

	if p.AdvanceBookingDays < domain.MinAdvanceBookingDays || p.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if p.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || p.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	if p.MaxSpanDays < domain.MinSpanDays || p.MaxSpanDays > domain.MaxSpanDays {
		return fmt.Errorf("%w: maxSpanDays must be between %d and %d",
			ErrInvalidInput, domain.MinSpanDays, domain.MaxSpanDays)
	}

	return nil
}
