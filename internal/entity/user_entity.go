package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	UserRoleYouth       = "youth"
	UserRoleMentor      = "mentor"
	UserRoleSchoolAdmin = "school_admin"
	UserRoleSuperAdmin  = "super_admin"

	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

type User struct {
	Id        uuid.UUID
	Email     string
	FullName  string
	Role      string
	Status    string
	AvatarURL *string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
