package entity

import "time"

// Plan is a subscription tier a company can hold. Limits of zero mean
// unlimited.
type Plan struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"nom" gorm:"size:100;uniqueIndex;not null"`
	PriceMonthly int64     `json:"prix_mensuel" gorm:"not null;default:0"`
	Currency     string    `json:"devise" gorm:"size:3;not null;default:'MGA'"`
	MaxEmployees int       `json:"max_employes" gorm:"not null;default:0"`
	MaxInvoices  int       `json:"max_factures" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Plan) TableName() string { return "plans" }
