package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrainerProfile is a self-registered Pokémon GO trainer.
// There is at most one profile per UserID and it is never edited after creation.
type TrainerProfile struct {
	ID          string `gorm:"primaryKey" bson:"-" json:"-"`
	UserID      string `gorm:"uniqueIndex;not null" bson:"discordId" json:"user_id"`
	DisplayName string `bson:"displayName" json:"display_name"`
	TrainerCode string `bson:"trainerCode" json:"trainer_code"`
	TrainerName string `bson:"trainerName" json:"trainer_name"`
}

func (TrainerProfile) TableName() string {
	return "trainers"
}

// BeforeCreate assigns a UUID primary key for SQL backends.
func (p *TrainerProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
