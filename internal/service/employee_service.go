package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
	"github.com/tsena-smart/tsena-api/internal/domain/repository"
	apperrors "github.com/tsena-smart/tsena-api/internal/pkg/errors"
)

// EmployeeInput carries the fields a company submits for a personnel
// record.
type EmployeeInput struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	ProfessionID  *uint
	AccessRightID *uint
	Salary        int64
}

// EmployeeService is the company-side management of personnel records,
// professions and access rights, plus the invitation that opens an
// auth account for an employee.
type EmployeeService struct {
	employees repository.EmployeeRepository
	companies repository.CompanyRepository
	email     EmailService

	inviteBaseURL string
}

func NewEmployeeService(
	employees repository.EmployeeRepository,
	companies repository.CompanyRepository,
	email EmailService,
	inviteBaseURL string,
) *EmployeeService {
	return &EmployeeService{
		employees:     employees,
		companies:     companies,
		email:         email,
		inviteBaseURL: inviteBaseURL,
	}
}

// Create adds a personnel record, honoring the company's plan cap on
// employees when one is set.
func (s *EmployeeService) Create(ctx context.Context, companyID uint, input EmployeeInput) (*entity.Employee, error) {
	if _, err := s.employees.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.Plan != nil && company.Plan.MaxEmployees > 0 {
		existing, err := s.employees.ListByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if len(existing) >= company.Plan.MaxEmployees {
			return nil, ErrPlanLimitReached
		}
	}

	employee := &entity.Employee{
		CompanyID:     companyID,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         input.Email,
		Phone:         input.Phone,
		ProfessionID:  input.ProfessionID,
		AccessRightID: input.AccessRightID,
		Salary:        input.Salary,
		IsActive:      true,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *EmployeeService) Get(ctx context.Context, companyID, id uint) (*entity.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return employee, nil
}

func (s *EmployeeService) List(ctx context.Context, companyID uint) ([]entity.Employee, error) {
	return s.employees.ListByCompany(ctx, companyID)
}

// Update applies the editable fields of a personnel record.
func (s *EmployeeService) Update(ctx context.Context, companyID, id uint, input EmployeeInput) (*entity.Employee, error) {
	employee, err := s.Get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	employee.FirstName = input.FirstName
	employee.LastName = input.LastName
	employee.Phone = input.Phone
	employee.ProfessionID = input.ProfessionID
	employee.AccessRightID = input.AccessRightID
	employee.Salary = input.Salary
	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *EmployeeService) Delete(ctx context.Context, companyID, id uint) error {
	if _, err := s.Get(ctx, companyID, id); err != nil {
		return err
	}
	return s.employees.Delete(ctx, id)
}

// Invite opens an auth account for the employee and mails the
// invitation link. Inviting twice is a conflict.
func (s *EmployeeService) Invite(ctx context.Context, companyID, employeeID uint) error {
	employee, err := s.Get(ctx, companyID, employeeID)
	if err != nil {
		return err
	}
	if _, err := s.employees.GetAccountByEmployeeID(ctx, employeeID); err == nil {
		return apperrors.ErrConflict
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	account := &entity.EmployeeAccount{
		EmployeeID: employee.ID,
		Email:      employee.Email,
	}
	if err := s.employees.CreateAccount(ctx, account); err != nil {
		return err
	}

	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s/employe/definir-mot-de-passe?email=%s", s.inviteBaseURL, employee.Email)
	if err := s.email.SendEmployeeInvitation(ctx, employee.Email, employee.FirstName, company.Name, link); err != nil {
		return ErrEmailDelivery
	}
	return nil
}

func (s *EmployeeService) CreateProfession(ctx context.Context, companyID uint, name string) (*entity.Profession, error) {
	profession := &entity.Profession{CompanyID: companyID, Name: name}
	if err := s.employees.CreateProfession(ctx, profession); err != nil {
		return nil, err
	}
	return profession, nil
}

func (s *EmployeeService) ListProfessions(ctx context.Context, companyID uint) ([]entity.Profession, error) {
	return s.employees.ListProfessions(ctx, companyID)
}

func (s *EmployeeService) DeleteProfession(ctx context.Context, companyID, id uint) error {
	return s.employees.DeleteProfession(ctx, companyID, id)
}

func (s *EmployeeService) CreateAccessRight(ctx context.Context, right *entity.AccessRight) (*entity.AccessRight, error) {
	if err := s.employees.CreateAccessRight(ctx, right); err != nil {
		return nil, err
	}
	return right, nil
}

func (s *EmployeeService) ListAccessRights(ctx context.Context, companyID uint) ([]entity.AccessRight, error) {
	return s.employees.ListAccessRights(ctx, companyID)
}

func (s *EmployeeService) UpdateAccessRight(ctx context.Context, companyID uint, right *entity.AccessRight) (*entity.AccessRight, error) {
	existing, err := s.employees.GetAccessRight(ctx, companyID, right.ID)
	if err != nil {
		return nil, err
	}
	existing.Name = right.Name
	existing.Permissions = right.Permissions
	if err := s.employees.UpdateAccessRight(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *EmployeeService) DeleteAccessRight(ctx context.Context, companyID, id uint) error {
	return s.employees.DeleteAccessRight(ctx, companyID, id)
}
