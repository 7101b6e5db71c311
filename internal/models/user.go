package models

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username          string  `gorm:"column:username;unique;not null" json:"username"`
	Email             string  `gorm:"column:email;unique;not null" json:"email"`
	Password          string  `gorm:"-" json:"-"` // Temporary field for password handling
	PasswordHash      string  `gorm:"column:password_hash;not null" json:"-"`
	Bio               string  `gorm:"column:bio;size:500" json:"bio"`
	ProfilePictureURL string  `gorm:"column:profile_picture_url;size:2048" json:"profilePictureUrl"`
	PhoneNumber       string  `gorm:"column:phone_number" json:"phoneNumber"`
	Role              string  `gorm:"column:role;not null;default:'member'" json:"role"`
	TwoFactorEnabled  bool    `gorm:"column:two_factor_enabled;default:false" json:"twoFactorEnabled"`
	TOTPSecret        string  `gorm:"column:totp_secret" json:"-"`
	Credits           float64 `gorm:"column:credits;type:decimal(18,2);default:0" json:"credits"`
	FCMToken          string  `gorm:"column:fcm_token" json:"-"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// NormalizeEmail lowercases an email address. Account lookup is
// case-insensitive on this normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
