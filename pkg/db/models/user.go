package models

import "time"

// User is a registered shopper. Rows are written once by the seeder or the
// CSV importer and never updated by the analytics layer.
type User struct {
	UserID           int64      `gorm:"column:user_id;primaryKey" json:"user_id"`
	Username         string     `gorm:"column:username" json:"username"`
	Email            string     `gorm:"column:email" json:"email"`
	RegistrationDate time.Time  `gorm:"column:registration_date" json:"registration_date"`
	LastLogin        *time.Time `gorm:"column:last_login" json:"last_login"`
	Status           string     `gorm:"column:status" json:"status"`
}

func (User) TableName() string { return "users" }
