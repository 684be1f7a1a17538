package user

import (
	"time"

	"github.com/google/uuid"
)

// User is a row of the users table. Garage owners and their employees share
// the table; an employee copies the garage columns from its parent.
type User struct {
	UserUID       uuid.UUID  `gorm:"column:user_uid;type:uuid;primaryKey;default:gen_random_uuid()"`
	ParentUserUID *uuid.UUID `gorm:"column:parent_user_uid;type:uuid;index"`
	FirstName     string     `gorm:"column:first_name;type:text;not null"`
	LastName      string     `gorm:"column:last_name;type:text;not null"`
	Email         string     `gorm:"column:email;type:text;not null"`
	PhoneNumber   string     `gorm:"column:phone_number;type:text;not null"`
	UserRole      string     `gorm:"column:user_role;type:text;not null"`
	LoginID       string     `gorm:"column:login_id;type:text;not null;index"`
	GarageUID     string     `gorm:"column:garage_uid;type:text;index"`
	GarageID      string     `gorm:"column:garage_id;type:text"`
	GarageName    string     `gorm:"column:garage_name;type:text"`
	IsActive      bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
