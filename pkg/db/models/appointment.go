package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pukpuklouis/blackliving-backend/pkg/enums"
)

// Appointment is a showroom trial booking created from the storefront.
type Appointment struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string                  `gorm:"column:name;not null"`
	Phone       string                  `gorm:"column:phone;not null"`
	Email       string                  `gorm:"column:email"`
	Showroom    string                  `gorm:"column:showroom;not null"`
	ScheduledAt time.Time               `gorm:"column:scheduled_at;not null;index"`
	Notes       *string                 `gorm:"column:notes"`
	Status      enums.AppointmentStatus `gorm:"column:status;type:text;not null;default:'pending';index"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *Appointment) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
