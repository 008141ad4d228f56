package delete_policy

import (
	"context"

	"github.com/m04kA/SMC-HallBookingService/internal/service/policy/models"
)

type PolicyService interface {
	Delete(ctx context.Context, req *models.DeletePolicyRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
