package jobrole

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobRole struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name      string         `gorm:"size:255;not null"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`

	IdentityRoles []IdentityRole `gorm:"foreignKey:JobRoleID"`
}

// IdentityRole is one identity provider realm role granted to every
// employee admitted under the owning job role.
type IdentityRole struct {
	JobRoleID uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleName  string    `gorm:"size:255;primaryKey"`
}

func (IdentityRole) TableName() string {
	return "job_role_identity_roles"
}
