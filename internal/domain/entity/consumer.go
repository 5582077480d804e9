package entity

import "time"

// Consumer is an end-customer account on the public storefront side.
// Consumers may register with a password or through Google sign-in, in
// which case GoogleSub is set and PasswordHash stays empty.
type Consumer struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	FirstName    string `json:"prenom" gorm:"size:100"`
	LastName     string `json:"nom" gorm:"size:100"`
	Email        string `json:"email" gorm:"size:254;uniqueIndex;not null"`
	Phone        string `json:"telephone" gorm:"size:30"`
	PasswordHash string `json:"-" gorm:"size:100"`
	GoogleSub    string `json:"-" gorm:"size:64;index"`
	PictureURL   string `json:"photo_url" gorm:"size:500"`

	EmailVerified bool `json:"email_verifie" gorm:"default:false"`
	IsActive      bool `json:"est_actif" gorm:"default:true"`

	LastLogin *time.Time `json:"dernier_login"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Consumer) TableName() string { return "consumers" }

func (c *Consumer) AccountID() uint          { return c.ID }
func (c *Consumer) AccountKind() AccountKind { return KindConsumer }
func (c *Consumer) AccountEmail() string     { return c.Email }
