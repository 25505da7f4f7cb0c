package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pukpuklouis/blackliving-backend/pkg/enums"
)

// PaymentTransaction records each gateway initiation attempt for an order.
// AmountCents includes the 5% tax applied on top of the order total.
type PaymentTransaction struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	OrderNo        string              `gorm:"column:order_no;not null;index"`
	AmountCents    int                 `gorm:"column:amount_cents;not null"`
	Method         enums.PaymentMethod `gorm:"column:method;type:text;not null"`
	Status         enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	GatewayTradeNo *string             `gorm:"column:gateway_trade_no"`
	ResultCode     *string             `gorm:"column:result_code"`
	ResultMessage  *string             `gorm:"column:result_message"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *PaymentTransaction) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
