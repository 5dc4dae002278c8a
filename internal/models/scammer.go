package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScammerRecord is a report against a platform user.
// Records are created and removed, never edited; the store rejects a second
// record for the same UserID.
type ScammerRecord struct {
	ID             string    `gorm:"primaryKey" bson:"-" json:"-"`
	UserID         string    `gorm:"uniqueIndex;not null" bson:"discordID" json:"user_id"`
	DisplayName    string    `bson:"discordName" json:"display_name"`
	TrainerCode    string    `bson:"trainerCode" json:"trainer_code"`
	TrainerName    string    `bson:"trainerName" json:"trainer_name"`
	ReportedServer string    `bson:"reportedServer" json:"reported_server"`
	Reporter       string    `bson:"reporter" json:"reporter"`
	Reason         string    `gorm:"type:text;not null" bson:"reason" json:"reason"`
	ReportedAt     time.Time `gorm:"index" bson:"reportedDate" json:"reported_at"`
}

func (ScammerRecord) TableName() string {
	return "scammers"
}

// BeforeCreate assigns a UUID primary key for SQL backends.
func (r *ScammerRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
