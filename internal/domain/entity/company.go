package entity

import "time"

// Company is the tenant root. Every employee, invoice and stock item
// hangs off a company. Auth fields mirror the consumer account but
// companies additionally carry subscription state.
type Company struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"nom" gorm:"size:150;not null"`
	Email        string `json:"email" gorm:"size:254;uniqueIndex;not null"`
	Phone        string `json:"telephone" gorm:"size:30"`
	Address      string `json:"adresse" gorm:"size:255"`
	City         string `json:"ville" gorm:"size:100"`
	Country      string `json:"pays" gorm:"size:100"`
	NIF          string `json:"nif" gorm:"size:50"`
	STAT         string `json:"stat" gorm:"size:50"`
	LogoURL      string `json:"logo_url" gorm:"size:500"`
	PasswordHash string `json:"-" gorm:"size:100;not null"`

	EmailVerified bool       `json:"email_verifie" gorm:"default:false"`
	IsActive      bool       `json:"est_actif" gorm:"default:true"`
	PlanID        *uint      `json:"plan_id" gorm:"index"`
	Plan          *Plan      `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
	PlanExpiresAt *time.Time `json:"plan_expire_le"`

	LastLogin *time.Time `json:"dernier_login"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Company) TableName() string { return "companies" }

func (c *Company) AccountID() uint          { return c.ID }
func (c *Company) AccountKind() AccountKind { return KindCompany }
func (c *Company) AccountEmail() string     { return c.Email }
