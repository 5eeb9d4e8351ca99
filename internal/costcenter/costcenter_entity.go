package costcenter

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CostCenter struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Code      string         `gorm:"size:50;not null"`
	Name      string         `gorm:"size:255;not null"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
