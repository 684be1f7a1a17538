package garageauth

import (
	"time"

	"github.com/google/uuid"
)

// GarageAuth grants UserUID the right to authenticate against GarageUID.
type GarageAuth struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserUID       uuid.UUID `gorm:"column:user_uid;type:uuid;not null;index"`
	GarageUID     string    `gorm:"column:garage_uid;type:text;not null"`
	ParentUserUID uuid.UUID `gorm:"column:parent_user_uid;type:uuid;not null"`
	LoginID       string    `gorm:"column:login_id;type:text;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (GarageAuth) TableName() string {
	return "garage_auth"
}
