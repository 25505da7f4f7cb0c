package models

import (
	"encoding/json"
	"time"
)

// Setting is a keyed JSON configuration row (logistic_settings and friends).
type Setting struct {
	Key       string          `gorm:"column:key;primaryKey"`
	Value     json.RawMessage `gorm:"column:value;type:jsonb;not null"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
