package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
	"github.com/tsena-smart/tsena-api/internal/domain/repository"
	"github.com/tsena-smart/tsena-api/internal/middleware"
	"github.com/tsena-smart/tsena-api/internal/service"
)

// InvoiceHandler exposes the invoicing endpoints.
type InvoiceHandler struct {
	invoices *service.InvoiceService
}

func NewInvoiceHandler(invoices *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

type invoiceItemRequest struct {
	Label       string `json:"libelle" binding:"required,max=200"`
	Quantity    int    `json:"quantite" binding:"required,gt=0"`
	UnitPrice   int64  `json:"prix_unitaire" binding:"gte=0"`
	StockItemID *uint  `json:"article_id"`
}

type invoiceRequest struct {
	Number      string               `json:"numero" binding:"required,max=40"`
	ClientName  string               `json:"client_nom" binding:"required,max=150"`
	ClientEmail string               `json:"client_email" binding:"omitempty,email"`
	ClientPhone string               `json:"client_telephone" binding:"max=30"`
	Description string               `json:"description" binding:"max=500"`
	Currency    string               `json:"devise" binding:"omitempty,len=3"`
	DueDate     *time.Time           `json:"date_echeance"`
	Items       []invoiceItemRequest `json:"lignes" binding:"required,min=1,dive"`
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Données de la facture invalides.")
		return
	}

	input := service.InvoiceInput{
		Number:      req.Number,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		Description: req.Description,
		Currency:    req.Currency,
		DueDate:     req.DueDate,
	}
	for _, line := range req.Items {
		input.Items = append(input.Items, service.InvoiceItemInput{
			Label:       line.Label,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			StockItemID: line.StockItemID,
		})
	}

	var createdBy *uint
	if id := middleware.AccountIDFrom(c); id != 0 {
		createdBy = &id
	}
	invoice, err := h.invoices.Create(c.Request.Context(), middleware.CompanyIDFrom(c), createdBy, input)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusCreated, "Facture créée avec succès.", invoice)
}

func listFilter(c *gin.Context) repository.InvoiceFilter {
	filter := repository.InvoiceFilter{
		Status: entity.InvoiceStatus(c.Query("statut")),
	}
	if limit, err := strconv.Atoi(c.Query("limite")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("decalage")); err == nil && offset > 0 {
		filter.Offset = offset
	}
	return filter
}

func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.invoices.List(c.Request.Context(), middleware.CompanyIDFrom(c), listFilter(c))
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Liste des factures.", invoices)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoices.Get(c.Request.Context(), middleware.CompanyIDFrom(c), id)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Détails de la facture.", invoice)
}

type invoiceUpdateRequest struct {
	Number      string     `json:"numero" binding:"required,max=40"`
	ClientName  string     `json:"client_nom" binding:"required,max=150"`
	ClientEmail string     `json:"client_email" binding:"omitempty,email"`
	ClientPhone string     `json:"client_telephone" binding:"max=30"`
	Description string     `json:"description" binding:"max=500"`
	Currency    string     `json:"devise" binding:"omitempty,len=3"`
	DueDate     *time.Time `json:"date_echeance"`
}

// Update edits a draft's header fields.
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req invoiceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Données de la facture invalides.")
		return
	}

	invoice, err := h.invoices.Update(c.Request.Context(), middleware.CompanyIDFrom(c), id, service.InvoiceInput{
		Number:      req.Number,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		Description: req.Description,
		Currency:    req.Currency,
		DueDate:     req.DueDate,
	})
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Facture mise à jour.", invoice)
}

type statusRequest struct {
	Status entity.InvoiceStatus `json:"statut" binding:"required"`
}

func (h *InvoiceHandler) ChangeStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Statut manquant.")
		return
	}

	invoice, err := h.invoices.ChangeStatus(c.Request.Context(), middleware.CompanyIDFrom(c), id, req.Status)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Statut de la facture mis à jour.", invoice)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.invoices.Delete(c.Request.Context(), middleware.CompanyIDFrom(c), id); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Facture supprimée.", nil)
}

// ExportExcel streams the invoice book as an xlsx attachment.
func (h *InvoiceHandler) ExportExcel(c *gin.Context) {
	data, err := h.invoices.ExportExcel(c.Request.Context(), middleware.CompanyIDFrom(c), listFilter(c))
	if err != nil {
		FailErr(c, err)
		return
	}

	filename := fmt.Sprintf("factures-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
