package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PersonalInfo struct {
	Id               uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserId           uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	PersonalInfoData datatypes.JSONMap `gorm:"not null"`
	CreatedAt        time.Time         `gorm:"autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime"`
}

func (PersonalInfo) TableName() string {
	return "personal_infos"
}

func (p *PersonalInfo) BeforeCreate(tx *gorm.DB) error {
	if p.Id == uuid.Nil {
		p.Id = uuid.New()
	}
	return nil
}
