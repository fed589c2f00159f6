package models

import "time"

// User is created on a user's first successful OTP verification. The email is
// already normalized (trimmed, lower-case) by the auth handshake.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"unique" json:"email" validate:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
