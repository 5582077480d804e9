package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tsena-smart/tsena-api/internal/middleware"
	"github.com/tsena-smart/tsena-api/internal/service"
)

// StockHandler exposes the inventory endpoints.
type StockHandler struct {
	stock *service.StockService
}

func NewStockHandler(stock *service.StockService) *StockHandler {
	return &StockHandler{stock: stock}
}

type stockItemRequest struct {
	Name        string `json:"nom" binding:"required,max=150"`
	SKU         string `json:"reference" binding:"max=60"`
	Description string `json:"description" binding:"max=500"`
	Quantity    int    `json:"quantite" binding:"gte=0"`
	Unit        string `json:"unite" binding:"max=30"`
	UnitPrice   int64  `json:"prix_unitaire" binding:"gte=0"`
	Currency    string `json:"devise" binding:"omitempty,len=3"`
	AlertLevel  int    `json:"seuil_alerte" binding:"gte=0"`
	Supplier    string `json:"fournisseur" binding:"max=150"`
	ImageURL    string `json:"image_url" binding:"omitempty,url,max=500"`
}

func (r stockItemRequest) toInput() service.StockItemInput {
	return service.StockItemInput{
		Name:        r.Name,
		SKU:         r.SKU,
		Description: r.Description,
		Quantity:    r.Quantity,
		Unit:        r.Unit,
		UnitPrice:   r.UnitPrice,
		Currency:    r.Currency,
		AlertLevel:  r.AlertLevel,
		Supplier:    r.Supplier,
		ImageURL:    r.ImageURL,
	}
}

func (h *StockHandler) Create(c *gin.Context) {
	var req stockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Données de l'article invalides.")
		return
	}
	item, err := h.stock.Create(c.Request.Context(), middleware.CompanyIDFrom(c), req.toInput())
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusCreated, "Article créé avec succès.", item)
}

func (h *StockHandler) List(c *gin.Context) {
	items, err := h.stock.List(c.Request.Context(), middleware.CompanyIDFrom(c))
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Liste des articles.", items)
}

func (h *StockHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	item, err := h.stock.Get(c.Request.Context(), middleware.CompanyIDFrom(c), id)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Détails de l'article.", item)
}

func (h *StockHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req stockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Données de l'article invalides.")
		return
	}
	item, err := h.stock.Update(c.Request.Context(), middleware.CompanyIDFrom(c), id, req.toInput())
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Article mis à jour.", item)
}

type adjustRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// Adjust applies a signed quantity movement on the article.
func (h *StockHandler) Adjust(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Mouvement de stock invalide.")
		return
	}
	item, err := h.stock.Adjust(c.Request.Context(), middleware.CompanyIDFrom(c), id, req.Delta)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Stock mis à jour.", item)
}

func (h *StockHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.stock.Delete(c.Request.Context(), middleware.CompanyIDFrom(c), id); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Article supprimé.", nil)
}
