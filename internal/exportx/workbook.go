/*
Workbook rendering for payroll runs, using xuri/excelize/v2 to build a
styled payroll spreadsheet: a single "Payslips" sheet for one payroll
run, one row per payslip with its gross-to-net totals, under a bold
header row.
*/
package exportx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/shiftcore/workforce/internal/models"
)

const payslipSheetName = "Payslips"

// RenderPayrollWorkbook builds an .xlsx workbook with one row per
// payslip in the run, for payroll teams that need a spreadsheet rather
// than a CSV.
func RenderPayrollWorkbook(run models.PayrollRun, payslips []models.Payslip, users map[string]models.User) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", payslipSheetName); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	headers := []string{
		"User ID", "User Name", "Gross Earnings", "Pre-Tax Deductions", "Taxable Wages",
		"Taxes Withheld", "Post-Tax Deductions", "Net Pay", "Employer Contrib Total", "Total Employer Cost",
	}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(payslipSheetName, cell, h)
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(payslipSheetName, "A1", lastCol, headerStyle)

	for i, p := range payslips {
		row := i + 2
		userName := users[p.UserID.String()].FullName
		values := []interface{}{
			p.UserID.String(), userName,
			p.GrossEarnings.String(), p.PreTaxDeductions.String(), p.TaxableWages.String(),
			p.TaxesWithheld.String(), p.PostTaxDeductions.String(), p.NetPay.String(),
			p.EmployerContribTotal.String(), p.TotalEmployerCost.String(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(payslipSheetName, cell, v)
		}
	}

	f.SetSheetName(payslipSheetName, fmt.Sprintf("Payroll %s", run.ID.String()[:8]))

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
