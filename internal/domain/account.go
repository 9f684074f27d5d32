package domain

import (
	"time"
)

// Account a registered user; offers reference accounts through a
// nullable owner id with SET NULL on delete, removing an account keeps
// its offers with ownership cleared.
type Account struct {
	ID        int64     `json:"id,string" form:"id" gorm:"primaryKey"`
	Username  string    `gorm:"size:64;uniqueIndex" json:"username" form:"username"`
	Password  string    `json:"-" form:"password"` // bcrypt hash
	Realname  string    `gorm:"size:64" json:"realname" form:"realname"`
	Mobile    string    `gorm:"size:32" json:"mobile" form:"mobile"`
	Email     string    `gorm:"size:128" json:"email" form:"email"`
	Level     string    `gorm:"size:16" json:"level" form:"level"`   // super/admin/user
	Status    string    `gorm:"size:16" json:"status" form:"status"` // enabled/disabled
	LastLogin time.Time `json:"last_login"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Account) TableName() string {
	return "sys_account"
}
