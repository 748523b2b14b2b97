package freelancer

import (
	"slices"
	"strconv"
	"strings"

	"github.com/simp-lee/hyve-admin/internal/domain"
	"github.com/simp-lee/hyve-admin/internal/view"
)

// UpdateFreelancerRequest is the edit form and the JSON body of
// PATCH /api/v1/freelancers/:id.
type UpdateFreelancerRequest struct {
	FirstName       string  `form:"firstName" json:"firstName" binding:"required,max=100"`
	LastName        string  `form:"lastName" json:"lastName" binding:"required,max=100"`
	Phone           string  `form:"phone" json:"phone" binding:"max=32"`
	ExperienceLevel string  `form:"experienceLevel" json:"experienceLevel" binding:"required,oneof=ENTRY INTERMEDIATE EXPERT"`
	HourlyRate      float64 `form:"hourlyRate" json:"hourlyRate" binding:"gte=0"`
	Bio             string  `form:"bio" json:"bio" binding:"max=5000"`
	// Skills is a comma separated list.
	Skills string `form:"skills" json:"skills" binding:"max=500"`
}

// CreateFreelancerRequest is the add form.
type CreateFreelancerRequest struct {
	FirstName       string  `form:"firstName" json:"firstName" binding:"required,max=100"`
	LastName        string  `form:"lastName" json:"lastName" binding:"required,max=100"`
	Email           string  `form:"email" json:"email" binding:"required,email"`
	Phone           string  `form:"phone" json:"phone" binding:"max=32"`
	ExperienceLevel string  `form:"experienceLevel" json:"experienceLevel" binding:"required,oneof=ENTRY INTERMEDIATE EXPERT"`
	HourlyRate      float64 `form:"hourlyRate" json:"hourlyRate" binding:"gte=0"`
	Skills          string  `form:"skills" json:"skills" binding:"max=500"`
}

// VerifyRequest is the JSON body of POST /api/v1/freelancers/:id/verify.
type VerifyRequest struct {
	Verified bool `json:"verified"`
}

func (r UpdateFreelancerRequest) toDomain() domain.FreelancerUpdate {
	return domain.FreelancerUpdate{
		FirstName:       strings.TrimSpace(r.FirstName),
		LastName:        strings.TrimSpace(r.LastName),
		Phone:           strings.TrimSpace(r.Phone),
		ExperienceLevel: r.ExperienceLevel,
		HourlyRate:      r.HourlyRate,
		Bio:             r.Bio,
		Skills:          splitSkills(r.Skills),
	}
}

func (r CreateFreelancerRequest) toDomain() domain.FreelancerInput {
	return domain.FreelancerInput{
		FirstName:       strings.TrimSpace(r.FirstName),
		LastName:        strings.TrimSpace(r.LastName),
		Email:           strings.TrimSpace(r.Email),
		Phone:           strings.TrimSpace(r.Phone),
		ExperienceLevel: r.ExperienceLevel,
		HourlyRate:      r.HourlyRate,
		Skills:          splitSkills(r.Skills),
	}
}

func updateRequestFrom(f *domain.Freelancer) UpdateFreelancerRequest {
	return UpdateFreelancerRequest{
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		Phone:           f.Phone,
		ExperienceLevel: f.ExperienceLevel,
		HourlyRate:      f.HourlyRate,
		Bio:             f.Bio,
		Skills:          strings.Join(f.Skills, ", "),
	}
}

func splitSkills(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func experienceOptions() []view.Option {
	opts := make([]view.Option, 0, len(domain.ExperienceLevels))
	for _, lvl := range domain.ExperienceLevels {
		opts = append(opts, view.Option{Value: lvl, Label: strings.ToLower(lvl)})
	}
	return opts
}

func rate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r UpdateFreelancerRequest) fields() []view.Field {
	return []view.Field{
		{Name: "firstName", Label: "First name", Type: view.FieldText, Value: r.FirstName, Required: true},
		{Name: "lastName", Label: "Last name", Type: view.FieldText, Value: r.LastName, Required: true},
		{Name: "phone", Label: "Phone", Type: view.FieldText, Value: r.Phone},
		{Name: "experienceLevel", Label: "Experience", Type: view.FieldSelect, Value: r.ExperienceLevel, Options: experienceOptions(), Required: true},
		{Name: "hourlyRate", Label: "Hourly rate", Type: view.FieldNumber, Value: rate(r.HourlyRate)},
		{Name: "skills", Label: "Skills", Type: view.FieldText, Value: r.Skills},
		{Name: "bio", Label: "Bio", Type: view.FieldTextarea, Value: r.Bio, Rich: true},
	}
}

func (r CreateFreelancerRequest) fields() []view.Field {
	return []view.Field{
		{Name: "firstName", Label: "First name", Type: view.FieldText, Value: r.FirstName, Required: true},
		{Name: "lastName", Label: "Last name", Type: view.FieldText, Value: r.LastName, Required: true},
		{Name: "email", Label: "Email", Type: view.FieldEmail, Value: r.Email, Required: true},
		{Name: "phone", Label: "Phone", Type: view.FieldText, Value: r.Phone},
		{Name: "experienceLevel", Label: "Experience", Type: view.FieldSelect, Value: r.ExperienceLevel, Options: experienceOptions(), Required: true},
		{Name: "hourlyRate", Label: "Hourly rate", Type: view.FieldNumber, Value: rate(r.HourlyRate)},
		{Name: "skills", Label: "Skills", Type: view.FieldText, Value: r.Skills},
	}
}

// viewFields is the read-only rendering of f.
func viewFields(f *domain.Freelancer) []view.Field {
	fields := append([]view.Field{
		{Name: "email", Label: "Email", Type: view.FieldEmail, Value: f.Email},
	}, updateRequestFrom(f).fields()...)
	return append(fields,
		view.Field{Name: "isVerified", Label: "Verified", Type: view.FieldCheckbox, Value: strconv.FormatBool(f.IsVerified)},
		view.Field{Name: "status", Label: "Status", Type: view.FieldText, Value: f.Status},
		view.Field{Name: "createdAt", Label: "Joined", Type: view.FieldDate, Value: f.CreatedAt.Format("2006-01-02")},
	)
}

// Bulk upload columns, as normalised by view.ReadBulkCSV.
var bulkColumns = []string{"firstname", "lastname", "email", "experiencelevel"}

// bulkInputs maps CSV rows onto inputs. Rows that cannot be parsed are
// reported as failures; positions holds the row number of every input.
func bulkInputs(rows []view.BulkRow) (inputs []domain.FreelancerInput, positions []int, failed []domain.BulkFailure) {
	inputs = make([]domain.FreelancerInput, 0, len(rows))
	for i, row := range rows {
		in := domain.FreelancerInput{
			FirstName:       row.Get("firstname"),
			LastName:        row.Get("lastname"),
			Email:           row.Get("email"),
			Phone:           row.Get("phone"),
			ExperienceLevel: strings.ToUpper(row.Get("experiencelevel")),
			Skills:          splitSkills(strings.ReplaceAll(row.Get("skills"), ";", ",")),
		}
		if raw := row.Get("hourlyrate"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				failed = append(failed, domain.BulkFailure{Row: i + 1, Email: in.Email, Message: "hourly rate must be a number"})
				continue
			}
			in.HourlyRate = v
		}
		inputs = append(inputs, in)
		positions = append(positions, i+1)
	}
	return inputs, positions, failed
}

// mergeFailures renumbers the upload failures by row and appends them to the
// parse failures, ordered by row.
func mergeFailures(parsed []domain.BulkFailure, res *domain.BulkResult, positions []int) []domain.BulkFailure {
	out := append([]domain.BulkFailure(nil), parsed...)
	for _, f := range res.Failed {
		if f.Row >= 1 && f.Row <= len(positions) {
			f.Row = positions[f.Row-1]
		}
		out = append(out, f)
	}
	slices.SortStableFunc(out, func(a, b domain.BulkFailure) int { return a.Row - b.Row })
	return out
}
