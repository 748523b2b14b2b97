package company

import (
	"strconv"
	"strings"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/view"
)

// UpdateCompanyRequest is the edit form and the JSON body of
// PATCH /api/v1/companies/:id.
type UpdateCompanyRequest struct {
	Name        string `form:"name" json:"name" binding:"required,max=200"`
	Industry    string `form:"industry" json:"industry" binding:"max=100"`
	Size        string `form:"size" json:"size" binding:"omitempty,oneof=1-10 11-50 51-200 201-500 500+"`
	Website     string `form:"website" json:"website" binding:"omitempty,url"`
	Description string `form:"description" json:"description" binding:"max=5000"`
}

// CreateCompanyRequest is the add form.
type CreateCompanyRequest struct {
	Name        string `form:"name" json:"name" binding:"required,max=200"`
	Email       string `form:"email" json:"email" binding:"required,email"`
	Industry    string `form:"industry" json:"industry" binding:"max=100"`
	Size        string `form:"size" json:"size" binding:"omitempty,oneof=1-10 11-50 51-200 201-500 500+"`
	Website     string `form:"website" json:"website" binding:"omitempty,url"`
	Description string `form:"description" json:"description" binding:"max=5000"`
}

// VerifyRequest is the JSON body of POST /api/v1/companies/:id/verify.
type VerifyRequest struct {
	Verified bool `json:"verified"`
}

func (r UpdateCompanyRequest) toDomain() domain.CompanyUpdate {
	return domain.CompanyUpdate{
		Name:        strings.TrimSpace(r.Name),
		Industry:    strings.TrimSpace(r.Industry),
		Size:        r.Size,
		Website:     strings.TrimSpace(r.Website),
		Description: r.Description,
	}
}

func (r CreateCompanyRequest) toDomain() domain.CompanyInput {
	return domain.CompanyInput{
		Name:        strings.TrimSpace(r.Name),
		Email:       strings.TrimSpace(r.Email),
		Industry:    strings.TrimSpace(r.Industry),
		Size:        r.Size,
		Website:     strings.TrimSpace(r.Website),
		Description: r.Description,
	}
}

func updateRequestFrom(co *domain.Company) UpdateCompanyRequest {
	return UpdateCompanyRequest{
		Name:        co.Name,
		Industry:    co.Industry,
		Size:        co.Size,
		Website:     co.Website,
		Description: co.Description,
	}
}

func sizeOptions() []view.Option {
	opts := []view.Option{{Value: "", Label: "Unknown"}}
	for _, s := range domain.CompanySizes {
		opts = append(opts, view.Option{Value: s, Label: s + " people"})
	}
	return opts
}

func (r UpdateCompanyRequest) fields() []view.Field {
	return []view.Field{
		{Name: "name", Label: "Name", Type: view.FieldText, Value: r.Name, Required: true},
		{Name: "industry", Label: "Industry", Type: view.FieldText, Value: r.Industry},
		{Name: "size", Label: "Size", Type: view.FieldSelect, Value: r.Size, Options: sizeOptions()},
		{Name: "website", Label: "Website", Type: view.FieldURL, Value: r.Website},
		{Name: "description", Label: "Description", Type: view.FieldTextarea, Value: r.Description, Rich: true},
	}
}

func (r CreateCompanyRequest) fields() []view.Field {
	return []view.Field{
		{Name: "name", Label: "Name", Type: view.FieldText, Value: r.Name, Required: true},
		{Name: "email", Label: "Contact email", Type: view.FieldEmail, Value: r.Email, Required: true},
		{Name: "industry", Label: "Industry", Type: view.FieldText, Value: r.Industry},
		{Name: "size", Label: "Size", Type: view.FieldSelect, Value: r.Size, Options: sizeOptions()},
		{Name: "website", Label: "Website", Type: view.FieldURL, Value: r.Website},
		{Name: "description", Label: "Description", Type: view.FieldTextarea, Value: r.Description, Rich: true},
	}
}

func viewFields(co *domain.Company) []view.Field {
	fields := append([]view.Field{
		{Name: "email", Label: "Contact email", Type: view.FieldEmail, Value: co.Email},
	}, updateRequestFrom(co).fields()...)
	return append(fields,
		view.Field{Name: "isVerified", Label: "Verified", Type: view.FieldCheckbox, Value: strconv.FormatBool(co.IsVerified)},
		view.Field{Name: "createdAt", Label: "Registered", Type: view.FieldDate, Value: co.CreatedAt.Format("2006-01-02")},
	)
}
