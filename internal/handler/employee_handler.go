package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
	"github.com/tsena-smart/tsena-api/internal/middleware"
	"github.com/tsena-smart/tsena-api/internal/service"
)

// EmployeeHandler exposes the company-side personnel endpoints.
type EmployeeHandler struct {
	employees *service.EmployeeService
}

func NewEmployeeHandler(employees *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		Fail(c, http.StatusBadRequest, "Identifiant invalide.")
		return 0, false
	}
	return uint(id), true
}

type employeeRequest struct {
	FirstName     string `json:"prenom" binding:"required,max=100"`
	LastName      string `json:"nom" binding:"required,max=100"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"telephone" binding:"max=30"`
	ProfessionID  *uint  `json:"profession_id"`
	AccessRightID *uint  `json:"droit_acces_id"`
	Salary        int64  `json:"salaire" binding:"gte=0"`
}

func (r employeeRequest) toInput() service.EmployeeInput {
	return service.EmployeeInput{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
		Phone:         r.Phone,
		ProfessionID:  r.ProfessionID,
		AccessRightID: r.AccessRightID,
		Salary:        r.Salary,
	}
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Données de l'employé invalides.")
		return
	}

	employee, err := h.employees.Create(c.Request.Context(), middleware.CompanyIDFrom(c), req.toInput())
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusCreated, "Employé créé avec succès.", employee)
}

func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.employees.List(c.Request.Context(), middleware.CompanyIDFrom(c))
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Liste des employés.", employees)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	employee, err := h.employees.Get(c.Request.Context(), middleware.CompanyIDFrom(c), id)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Détails de l'employé.", employee)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Données de l'employé invalides.")
		return
	}

	employee, err := h.employees.Update(c.Request.Context(), middleware.CompanyIDFrom(c), id, req.toInput())
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Employé mis à jour.", employee)
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.employees.Delete(c.Request.Context(), middleware.CompanyIDFrom(c), id); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Employé supprimé.", nil)
}

// Invite opens an auth account for the employee and mails the link.
func (h *EmployeeHandler) Invite(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.employees.Invite(c.Request.Context(), middleware.CompanyIDFrom(c), id); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Invitation envoyée à l'employé.", nil)
}

type professionRequest struct {
	Name string `json:"nom" binding:"required,max=100"`
}

func (h *EmployeeHandler) CreateProfession(c *gin.Context) {
	var req professionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Nom de profession invalide.")
		return
	}
	profession, err := h.employees.CreateProfession(c.Request.Context(), middleware.CompanyIDFrom(c), req.Name)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusCreated, "Profession créée.", profession)
}

func (h *EmployeeHandler) ListProfessions(c *gin.Context) {
	professions, err := h.employees.ListProfessions(c.Request.Context(), middleware.CompanyIDFrom(c))
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Liste des professions.", professions)
}

func (h *EmployeeHandler) DeleteProfession(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.employees.DeleteProfession(c.Request.Context(), middleware.CompanyIDFrom(c), id); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Profession supprimée.", nil)
}

type accessRightRequest struct {
	Name        string         `json:"nom" binding:"required,max=100"`
	Permissions datatypes.JSON `json:"permissions" binding:"required"`
}

func (h *EmployeeHandler) CreateAccessRight(c *gin.Context) {
	var req accessRightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Données du droit d'accès invalides.")
		return
	}

	right, err := h.employees.CreateAccessRight(c.Request.Context(), &entity.AccessRight{
		CompanyID:   middleware.CompanyIDFrom(c),
		Name:        req.Name,
		Permissions: req.Permissions,
	})
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusCreated, "Droit d'accès créé.", right)
}

func (h *EmployeeHandler) ListAccessRights(c *gin.Context) {
	rights, err := h.employees.ListAccessRights(c.Request.Context(), middleware.CompanyIDFrom(c))
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Liste des droits d'accès.", rights)
}

func (h *EmployeeHandler) UpdateAccessRight(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req accessRightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Données du droit d'accès invalides.")
		return
	}

	right, err := h.employees.UpdateAccessRight(c.Request.Context(), middleware.CompanyIDFrom(c), &entity.AccessRight{
		ID:          id,
		Name:        req.Name,
		Permissions: req.Permissions,
	})
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Droit d'accès mis à jour.", right)
}

func (h *EmployeeHandler) DeleteAccessRight(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.employees.DeleteAccessRight(c.Request.Context(), middleware.CompanyIDFrom(c), id); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Droit d'accès supprimé.", nil)
}
