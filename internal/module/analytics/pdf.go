package analytics

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/simp-lee/hyve-admin/internal/domain"
)

// RenderPDF lays out ov as an A4 report.
func RenderPDF(ov *domain.AnalyticsOverview, r domain.AnalyticsRange, generated time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("HYVE platform analytics", false)
	pdf.SetAuthor("HYVE admin console", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "HYVE platform analytics")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("%s to %s", r.From.Format(dateLayout), r.To.Format(dateLayout)))
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 5, "Generated "+generated.UTC().Format("2006-01-02 15:04 UTC"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range summaryRows(ov) {
		pdf.CellFormat(80, 7, row[0], "B", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, row[1], "B", 1, "R", false, 0, "")
	}

	if len(ov.Series) > 0 {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Daily activity")
		pdf.Ln(8)

		widths := []float64{40, 40, 40, 50}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(235, 235, 235)
		for i, h := range []string{"Date", "New freelancers", "New projects", "Revenue"} {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
		for _, p := range ov.Series {
			pdf.CellFormat(widths[0], 6, p.Date, "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 6, strconv.Itoa(p.NewFreelancers), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[2], 6, strconv.Itoa(p.NewProjects), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[3], 6, money(p.Revenue), "1", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "could not render the report", err)
	}
	return buf.Bytes(), nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// summaryRows are the label/value pairs of the summary block, shared by the
// report and the screen.
func summaryRows(ov *domain.AnalyticsOverview) [][2]string {
	return [][2]string{
		{"Freelancers", strconv.Itoa(ov.TotalFreelancers)},
		{"Verified freelancers", strconv.Itoa(ov.VerifiedFreelancers)},
		{"Companies", strconv.Itoa(ov.TotalCompanies)},
		{"Teams", strconv.Itoa(ov.TotalTeams)},
		{"Projects", strconv.Itoa(ov.TotalProjects)},
		{"Active projects", strconv.Itoa(ov.ActiveProjects)},
		{"Pending withdrawals", strconv.Itoa(ov.PendingWithdrawals)},
		{"Withdrawal volume", money(ov.WithdrawalVolume)},
		{"Revenue", money(ov.Revenue)},
	}
}
