package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pukpuklouis/blackliving-backend/pkg/db/models"
	"github.com/pukpuklouis/blackliving-backend/pkg/enums"
	pkgerrors "github.com/pukpuklouis/blackliving-backend/pkg/errors"
	"github.com/pukpuklouis/blackliving-backend/pkg/logger"
	"github.com/pukpuklouis/blackliving-backend/pkg/pagination"
)

// Service owns showroom trial bookings.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*View, error)
	AdminList(ctx context.Context, params pagination.Params, status string) ([]View, string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target enums.AppointmentStatus) (*View, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the appointment service with the required dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("appointments repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("appointments logger required")
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if digitCount(input.Phone) < 10 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone must have at least 10 digits")
	}
	if strings.TrimSpace(input.Showroom) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "showroom required")
	}
	if input.ScheduledAt.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled time must be in the future")
	}

	appt := &models.Appointment{
		Name:        strings.TrimSpace(input.Name),
		Phone:       strings.TrimSpace(input.Phone),
		Email:       strings.TrimSpace(input.Email),
		Showroom:    strings.TrimSpace(input.Showroom),
		ScheduledAt: input.ScheduledAt,
		Notes:       input.Notes,
		Status:      enums.AppointmentStatusPending,
	}
	if _, err := s.repo.Create(ctx, appt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create appointment")
	}

	s.logg.Info(s.logg.WithField(ctx, "appointment_id", appt.ID.String()), "appointment booked")

	view := toView(*appt)
	return &view, nil
}

func (s *service) AdminList(ctx context.Context, params pagination.Params, status string) ([]View, string, error) {
	var statusFilter *enums.AppointmentStatus
	if status != "" {
		parsed, err := enums.ParseAppointmentStatus(status)
		if err != nil {
			return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		statusFilter = &parsed
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListPaged(ctx, cursor, pagination.LimitWithBuffer(params.Limit), statusFilter)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list appointments")
	}

	next := ""
	if len(rows) > limit {
		last := rows[limit-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}

	views := make([]View, 0, len(rows))
	for _, row := range rows {
		views = append(views, toView(row))
	}
	return views, next, nil
}

// allowedTransitions is the booking state machine. Completed and cancelled
// appointments are terminal.
var allowedTransitions = map[enums.AppointmentStatus][]enums.AppointmentStatus{
	enums.AppointmentStatusPending:   {enums.AppointmentStatusConfirmed, enums.AppointmentStatusCancelled},
	enums.AppointmentStatusConfirmed: {enums.AppointmentStatusCompleted, enums.AppointmentStatusCancelled},
}

func canTransition(from, to enums.AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, target enums.AppointmentStatus) (*View, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid appointment status")
	}

	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load appointment")
	}

	if appt.Status == target {
		view := toView(*appt)
		return &view, nil
	}
	if !canTransition(appt.Status, target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move appointment from %s to %s", appt.Status, target))
	}

	if err := s.repo.Update(ctx, appt.ID, map[string]any{"status": target}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update appointment status")
	}

	appt.Status = target
	view := toView(*appt)
	return &view, nil
}

func digitCount(value string) int {
	count := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count
}
