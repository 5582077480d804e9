package entity

import "time"

// InvoiceStatus is the lifecycle state of an invoice. Status names are
// the French values the clients display and filter on.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "brouillon"
	InvoiceSent      InvoiceStatus = "envoyee"
	InvoicePaid      InvoiceStatus = "payee"
	InvoiceCancelled InvoiceStatus = "annulee"
	InvoiceFailed    InvoiceStatus = "echoue"
)

// ValidInvoiceStatus reports whether s is one of the known states.
func ValidInvoiceStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceCancelled, InvoiceFailed:
		return true
	}
	return false
}

// Invoice is a billing document belonging to a company. Amounts are
// integer minor units in the invoice currency.
type Invoice struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	CompanyID uint     `json:"entreprise_id" gorm:"index;not null;index:idx_invoice_number,unique"`
	Company   *Company `json:"-" gorm:"foreignKey:CompanyID"`

	Number       string        `json:"numero" gorm:"size:40;not null;index:idx_invoice_number,unique"`
	ClientName   string        `json:"client_nom" gorm:"size:150;not null"`
	ClientEmail  string        `json:"client_email" gorm:"size:254"`
	ClientPhone  string        `json:"client_telephone" gorm:"size:30"`
	Description  string        `json:"description" gorm:"size:500"`
	AmountTotal  int64         `json:"montant_total" gorm:"not null"`
	AmountPaid   int64         `json:"montant_paye" gorm:"not null;default:0"`
	Currency     string        `json:"devise" gorm:"size:3;not null;default:'MGA'"`
	Status       InvoiceStatus `json:"statut" gorm:"size:16;not null;default:'brouillon'"`
	DueDate      *time.Time    `json:"date_echeance"`
	PaidAt       *time.Time    `json:"paye_le"`
	CreatedByID  *uint         `json:"cree_par_id"`
	CreatedAt    time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	// Derived, not stored; stamped by the service before serving.
	IsOverdue bool `json:"en_retard" gorm:"-"`

	Items []InvoiceItem `json:"lignes" gorm:"foreignKey:InvoiceID"`
}

func (Invoice) TableName() string { return "invoices" }

// Overdue reports whether the invoice is past its due date while still
// awaiting payment. Drafts and settled states are never overdue.
func (i *Invoice) Overdue(now time.Time) bool {
	if i.DueDate == nil {
		return false
	}
	switch i.Status {
	case InvoiceSent, InvoiceFailed:
		return i.DueDate.Before(now)
	}
	return false
}

// InvoiceItem is one billed line on an invoice.
type InvoiceItem struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	InvoiceID  uint   `json:"facture_id" gorm:"index;not null"`
	Label      string `json:"libelle" gorm:"size:200;not null"`
	Quantity   int    `json:"quantite" gorm:"not null;default:1"`
	UnitPrice  int64  `json:"prix_unitaire" gorm:"not null"`
	StockItemID *uint `json:"article_id"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }

// Total returns quantity times unit price for the line.
func (i *InvoiceItem) Total() int64 { return int64(i.Quantity) * i.UnitPrice }
