package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleDiretor     UserRole = "DIRETOR"
	RoleGM          UserRole = "GM"
	RoleSupervisor  UserRole = "SUPERVISOR"
	RoleFuncionario UserRole = "FUNCIONARIO"
)

// ValidRole reports whether the given role is one of the known roles.
func ValidRole(role UserRole) bool {
	switch role {
	case RoleDiretor, RoleGM, RoleSupervisor, RoleFuncionario:
		return true
	}
	return false
}

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Name         string         `gorm:"type:varchar(255)" json:"name"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         UserRole       `gorm:"type:varchar(20);not null;default:'FUNCIONARIO'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	ExecutedTasks []Task                `gorm:"foreignKey:ExecutorID" json:"-"`
	Memberships   []TaskTeamMember      `gorm:"foreignKey:UserID" json:"-"`
	Projects      []ProjectResponsible  `gorm:"foreignKey:UserID" json:"-"`
}
