package entity

import "time"

// OTPPurpose distinguishes what a one-time code unlocks.
type OTPPurpose string

const (
	PurposeEmailVerify   OTPPurpose = "email_verify"
	PurposePasswordReset OTPPurpose = "password_reset"
)

// OTPCode is a short-lived numeric code mailed to an account. Codes are
// scoped per (account kind, account id, purpose): issuing a new code for
// the same scope replaces the previous one. Expired codes are deleted
// the first time a read observes them.
type OTPCode struct {
	ID          uint        `gorm:"primaryKey"`
	AccountKind AccountKind `gorm:"size:16;not null;index:idx_otp_scope,unique"`
	AccountID   uint        `gorm:"not null;index:idx_otp_scope,unique"`
	Purpose     OTPPurpose  `gorm:"size:32;not null;index:idx_otp_scope,unique"`
	Code        string      `gorm:"size:6;not null"`
	ExpiresAt   time.Time   `gorm:"not null"`
	CreatedAt   time.Time   `gorm:"autoCreateTime"`
}

func (OTPCode) TableName() string { return "otp_codes" }

// IsExpired reports whether the code is no longer valid at now.
func (o *OTPCode) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
