package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftcore/workforce/internal/models"
)

func TestComputeGrossToNetBasic(t *testing.T) {
	line := models.PayrollRunLine{
		RegularHours: decimal.NewFromInt(40),
		PaidHours:    decimal.NewFromInt(40),
	}
	profile := models.CompensationProfile{HourlyRate: decimal.NewFromInt(20)}
	policy := models.WorkforcePolicy{TaxPercent: 10}

	payslip, items, err := computeGrossToNet(line, profile, nil, policy)
	require.NoError(t, err)

	assert.True(t, payslip.GrossEarnings.Equal(decimal.NewFromInt(800)))
	assert.True(t, payslip.PreTaxDeductions.Equal(decimal.Zero))
	assert.True(t, payslip.TaxableWages.Equal(decimal.NewFromInt(800)))
	assert.True(t, payslip.TaxesWithheld.Equal(decimal.NewFromInt(80)))
	assert.True(t, payslip.NetPay.Equal(decimal.NewFromInt(720)))
	assert.True(t, payslip.TotalEmployerCost.Equal(decimal.NewFromInt(800)))
	assert.Empty(t, payslip.RoundingDriftNote)
	assert.Empty(t, items)
}

func TestComputeGrossToNetWithComponents(t *testing.T) {
	line := models.PayrollRunLine{
		RegularHours: decimal.NewFromInt(40),
		PaidHours:    decimal.NewFromInt(40),
	}
	profile := models.CompensationProfile{HourlyRate: decimal.NewFromInt(25)}
	policy := models.WorkforcePolicy{TaxPercent: 12}
	components := []models.CompensationComponent{
		{Code: "BONUS", Type: models.ComponentEarning, Calc: models.CalcFixed, Value: decimal.NewFromInt(50)},
		{Code: "401K", Type: models.ComponentDeduction, Calc: models.CalcPercent, Value: decimal.NewFromInt(5), PreTax: true},
		{Code: "PARKING", Type: models.ComponentDeduction, Calc: models.CalcFixed, Value: decimal.NewFromInt(15), PreTax: false},
		{Code: "FICA_ER", Type: models.ComponentEmployerContrib, Calc: models.CalcPercent, Value: decimal.NewFromInt(6)},
	}

	payslip, items, err := computeGrossToNet(line, profile, components, policy)
	require.NoError(t, err)

	// gross = 40*25 + 50 = 1050
	assert.True(t, payslip.GrossEarnings.Equal(decimal.NewFromInt(1050)), payslip.GrossEarnings.String())
	// pre-tax deduction = 5% of 1050 = 52.5
	assert.True(t, payslip.PreTaxDeductions.Equal(decimal.NewFromFloat(52.5)), payslip.PreTaxDeductions.String())
	// taxable = 1050 - 52.5 = 997.5
	assert.True(t, payslip.TaxableWages.Equal(decimal.NewFromFloat(997.5)), payslip.TaxableWages.String())
	// tax = 12% of 997.5 = 119.7
	assert.True(t, payslip.TaxesWithheld.Equal(decimal.NewFromFloat(119.70)), payslip.TaxesWithheld.String())
	// post-tax deduction = 15
	assert.True(t, payslip.PostTaxDeductions.Equal(decimal.NewFromInt(15)))
	// net = 1050 - 52.5 - 119.7 - 15 = 862.8
	assert.True(t, payslip.NetPay.Equal(decimal.NewFromFloat(862.8)), payslip.NetPay.String())
	// employer contrib = 6% of gross 1050 = 63
	assert.True(t, payslip.EmployerContribTotal.Equal(decimal.NewFromInt(63)))
	// total employer cost = 1050 + 63 = 1113
	assert.True(t, payslip.TotalEmployerCost.Equal(decimal.NewFromInt(1113)))
	assert.Len(t, items, 4)
}

func TestComputeGrossToNetZeroHours(t *testing.T) {
	line := models.PayrollRunLine{}
	profile := models.CompensationProfile{HourlyRate: decimal.NewFromInt(15)}
	policy := models.WorkforcePolicy{TaxPercent: 10}

	payslip, _, err := computeGrossToNet(line, profile, nil, policy)
	require.NoError(t, err)
	assert.True(t, payslip.GrossEarnings.IsZero())
	assert.True(t, payslip.NetPay.IsZero())
}
