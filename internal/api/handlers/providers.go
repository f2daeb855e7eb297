package handlers

import (
	"context"

	"github.com/nycdash/ridership-dashboard/internal/models"
)

// AlertProvider abstracts the live service alerts source for testability.
type AlertProvider interface {
	ActiveAlerts(ctx context.Context) ([]models.ServiceAlert, error)
}
