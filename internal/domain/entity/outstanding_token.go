package entity

import "time"

// OutstandingToken records a refresh token the server has issued, keyed
// by its jti. A row with Revoked=true is the blacklist entry for that
// token. Rows are written on issue and upserted on revocation, so a
// revoke call always lands even for a jti that was never persisted.
type OutstandingToken struct {
	ID          uint        `gorm:"primaryKey"`
	JTI         string      `gorm:"size:36;uniqueIndex;not null"`
	AccountKind AccountKind `gorm:"size:16;not null;index:idx_token_account"`
	AccountID   uint        `gorm:"not null;index:idx_token_account"`
	Revoked     bool        `gorm:"not null;default:false"`
	IssuedAt    time.Time   `gorm:"not null"`
	ExpiresAt   time.Time   `gorm:"not null"`
	CreatedAt   time.Time   `gorm:"autoCreateTime"`
}

func (OutstandingToken) TableName() string { return "outstanding_tokens" }
