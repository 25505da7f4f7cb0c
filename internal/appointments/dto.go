package appointments

import (
	"time"

	"github.com/google/uuid"

	"github.com/pukpuklouis/blackliving-backend/pkg/db/models"
	"github.com/pukpuklouis/blackliving-backend/pkg/enums"
)

// CreateInput is the storefront booking payload.
type CreateInput struct {
	Name        string    `json:"name" validate:"required"`
	Phone       string    `json:"phone" validate:"required"`
	Email       string    `json:"email,omitempty"`
	Showroom    string    `json:"showroom" validate:"required"`
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
	Notes       *string   `json:"notes,omitempty"`
}

// View is the wire shape of an appointment.
type View struct {
	ID          uuid.UUID               `json:"id"`
	Name        string                  `json:"name"`
	Phone       string                  `json:"phone"`
	Email       string                  `json:"email,omitempty"`
	Showroom    string                  `json:"showroom"`
	ScheduledAt time.Time               `json:"scheduledAt"`
	Notes       *string                 `json:"notes,omitempty"`
	Status      enums.AppointmentStatus `json:"status"`
	CreatedAt   time.Time               `json:"createdAt"`
}

func toView(a models.Appointment) View {
	return View{
		ID:          a.ID,
		Name:        a.Name,
		Phone:       a.Phone,
		Email:       a.Email,
		Showroom:    a.Showroom,
		ScheduledAt: a.ScheduledAt,
		Notes:       a.Notes,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
	}
}
