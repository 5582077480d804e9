package entity

import "time"

// StockItem is an article in a company's inventory. Quantity is a plain
// counter; movements adjust it and a negative adjustment larger than
// the current quantity is rejected at the service layer.
type StockItem struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	CompanyID uint     `json:"entreprise_id" gorm:"index;not null;index:idx_stock_item_name,unique"`
	Company   *Company `json:"-" gorm:"foreignKey:CompanyID"`

	Name        string `json:"nom" gorm:"size:150;not null;index:idx_stock_item_name,unique"`
	SKU         string `json:"reference" gorm:"size:60;index"`
	Description string `json:"description" gorm:"size:500"`
	Quantity    int    `json:"quantite" gorm:"not null;default:0"`
	Unit        string `json:"unite" gorm:"size:30;not null;default:'piece'"`
	UnitPrice   int64  `json:"prix_unitaire" gorm:"not null;default:0"`
	Currency    string `json:"devise" gorm:"size:3;not null;default:'MGA'"`
	AlertLevel  int    `json:"seuil_alerte" gorm:"not null;default:0"`
	Supplier    string `json:"fournisseur" gorm:"size:150"`
	ImageURL    string `json:"image_url" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (StockItem) TableName() string { return "stock_items" }

// LowStock reports whether the quantity has fallen to the alert level.
func (s *StockItem) LowStock() bool {
	return s.AlertLevel > 0 && s.Quantity <= s.AlertLevel
}
