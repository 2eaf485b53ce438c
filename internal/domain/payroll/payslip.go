package payroll

import (
	"context"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"crewhub/internal/domain/access"
)

// WritePayslipPDF renders a payslip for a single row to w. Visibility rules
// are the same as Get, so an employee can always export their own slip.
func (s *Service) WritePayslipPDF(ctx context.Context, p access.Principal, rowID string, w io.Writer) error {
	row, err := s.Get(ctx, p, rowID)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", row.DisplayName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Month: %s", row.Month))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Gross: %s", formatAmount(row.Gross)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %s", formatAmount(row.Deductions)))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %s", formatAmount(row.Net)))
	if row.BankRef != "" {
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 6, fmt.Sprintf("Bank reference: %s", row.BankRef))
	}

	return pdf.Output(w)
}

// Amounts are stored in cents.
func formatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
