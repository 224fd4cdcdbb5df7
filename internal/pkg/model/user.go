package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id        uuid.UUID
	Name      string
	Email     string
	GoogleSub *string
	AvatarUrl *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "gamblor_user"
}
