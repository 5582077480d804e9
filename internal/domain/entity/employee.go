package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Profession labels an employee's role inside a company ("caissier",
// "vendeur", ...). Professions are per-company.
type Profession struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CompanyID uint      `json:"entreprise_id" gorm:"index;not null"`
	Name      string    `json:"nom" gorm:"size:100;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Profession) TableName() string { return "professions" }

// AccessRight is a named permission document granted to an employee.
// Permissions is a free-form JSON object of feature flags, e.g.
// {"factures": {"lire": true, "ecrire": false}}.
type AccessRight struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CompanyID   uint           `json:"entreprise_id" gorm:"index;not null"`
	Name        string         `json:"nom" gorm:"size:100;not null"`
	Permissions datatypes.JSON `json:"permissions" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

func (AccessRight) TableName() string { return "access_rights" }

// Employee is the personnel record a company manages. The auth account
// (password, OTP verification, lockout) lives on EmployeeAccount so an
// employee can exist before being invited to log in.
type Employee struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	CompanyID    uint        `json:"entreprise_id" gorm:"index;not null"`
	Company      *Company    `json:"-" gorm:"foreignKey:CompanyID"`
	FirstName    string      `json:"prenom" gorm:"size:100;not null"`
	LastName     string      `json:"nom" gorm:"size:100;not null"`
	Email        string      `json:"email" gorm:"size:254;uniqueIndex;not null"`
	Phone        string      `json:"telephone" gorm:"size:30"`
	ProfessionID *uint       `json:"profession_id"`
	Profession   *Profession `json:"profession,omitempty" gorm:"foreignKey:ProfessionID"`

	AccessRightID *uint        `json:"droit_acces_id"`
	AccessRight   *AccessRight `json:"droit_acces,omitempty" gorm:"foreignKey:AccessRightID"`

	Salary   int64 `json:"salaire" gorm:"not null;default:0"`
	IsActive bool  `json:"est_actif" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Employee) TableName() string { return "employees" }

// MaxFailedLogins is the attempt count at which an employee account locks.
const MaxFailedLogins = 5

// EmployeeAccount holds the login credentials and lockout state for an
// employee. Created when the company invites the employee; the password
// is set by the employee through the invitation flow.
type EmployeeAccount struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	EmployeeID uint      `json:"employe_id" gorm:"uniqueIndex;not null"`
	Employee   *Employee `json:"-" gorm:"foreignKey:EmployeeID"`

	Email        string `json:"email" gorm:"size:254;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"size:100"`

	EmailVerified  bool       `json:"email_verifie" gorm:"default:false"`
	FailedAttempts int        `json:"-" gorm:"not null;default:0"`
	LockedUntil    *time.Time `json:"-"`

	LastLogin *time.Time `json:"dernier_login"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (EmployeeAccount) TableName() string { return "employee_accounts" }

func (a *EmployeeAccount) AccountID() uint          { return a.ID }
func (a *EmployeeAccount) AccountKind() AccountKind { return KindEmployee }
func (a *EmployeeAccount) AccountEmail() string     { return a.Email }

// IsLocked reports whether the account is currently locked out.
// Lockout requires both the attempt threshold and an unexpired window.
func (a *EmployeeAccount) IsLocked(now time.Time) bool {
	return a.FailedAttempts >= MaxFailedLogins &&
		a.LockedUntil != nil && a.LockedUntil.After(now)
}
