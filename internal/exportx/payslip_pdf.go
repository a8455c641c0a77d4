/*
Single-payslip PDF rendering, for the one-payslip-at-a-time case where
a lightweight PDF reads better than a spreadsheet row. Uses
jung-kurt/gofpdf directly rather than a template engine, keeping the
renderer small and dependency-light.
*/
package exportx

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"

	"github.com/shiftcore/workforce/internal/models"
)

// RenderPayslipPDF builds a single-page PDF summarizing one payslip's
// gross-to-net breakdown for the named employee.
func RenderPayslipPDF(run models.PayrollRun, payslip models.Payslip, userName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(18, 18, 18)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Payslip", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Employee: "+userName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Payroll run: "+run.ID.String(), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(100, 8, "Line", "1", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	rows := []struct {
		label  string
		amount string
	}{
		{"Gross earnings", payslip.GrossEarnings.StringFixed(2)},
		{"Pre-tax deductions", payslip.PreTaxDeductions.StringFixed(2)},
		{"Taxable wages", payslip.TaxableWages.StringFixed(2)},
		{"Taxes withheld", payslip.TaxesWithheld.StringFixed(2)},
		{"Post-tax deductions", payslip.PostTaxDeductions.StringFixed(2)},
		{"Net pay", payslip.NetPay.StringFixed(2)},
		{"Employer contributions", payslip.EmployerContribTotal.StringFixed(2)},
		{"Total employer cost", payslip.TotalEmployerCost.StringFixed(2)},
	}
	for _, row := range rows {
		pdf.CellFormat(100, 8, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, row.amount, "1", 1, "R", false, 0, "")
	}

	if payslip.RoundingDriftNote != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, payslip.RoundingDriftNote, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
