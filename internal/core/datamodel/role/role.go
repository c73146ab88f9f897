package role

import "time"

// Role rows embed their permission grants as a JSON document column.
type Role struct {
	ID          string       `gorm:"primaryKey;type:varchar(36)"`
	Name        string       `gorm:"column:name;uniqueIndex;not null"`
	Permissions []Permission `gorm:"column:permissions;serializer:json;not null"`
	CreatedAt   time.Time    `gorm:"column:created_at"`
	UpdatedAt   time.Time    `gorm:"column:updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

type Permission struct {
	Module  string   `json:"module"`
	Actions []string `json:"actions"`
}
