/*
Package models - Payroll Run and General Ledger Models

==============================================================================
FILE: internal/models/payroll.go
==============================================================================

DESCRIPTION:
    PayrollRun and its child rows, plus the GL journal rows payroll
    posting writes. All money fields use shopspring/decimal rather than
    a float64-backed "decimal(15,2)" tag, so gross-to-net arithmetic
    never rounds in binary floating point.

==============================================================================
*/
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PayrollRunStatus string

const (
	PayrollDraft      PayrollRunStatus = "DRAFT"
	PayrollCalculated PayrollRunStatus = "CALCULATED"
	PayrollApproved   PayrollRunStatus = "APPROVED"
	PayrollPosted     PayrollRunStatus = "POSTED"
	PayrollPaid       PayrollRunStatus = "PAID"
	PayrollVoid       PayrollRunStatus = "VOID"
)

// PayrollRun is the root of one payroll cycle for (org, optional branch,
// pay period). Each transition captures actor and timestamp.
type PayrollRun struct {
	BaseModel
	OrgID       uuid.UUID        `gorm:"type:text;not null;index" json:"org_id"`
	BranchID    *uuid.UUID       `gorm:"type:text;index" json:"branch_id,omitempty"`
	PayPeriodID uuid.UUID        `gorm:"type:text;not null;index" json:"pay_period_id"`
	Status      PayrollRunStatus `gorm:"size:12;not null;default:DRAFT;index" json:"status"`

	CalculatedByID *uuid.UUID `gorm:"type:text" json:"calculated_by_id,omitempty"`
	CalculatedAt   *time.Time `json:"calculated_at,omitempty"`
	ApprovedByID   *uuid.UUID `gorm:"type:text" json:"approved_by_id,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	PostedByID     *uuid.UUID `gorm:"type:text" json:"posted_by_id,omitempty"`
	PostedAt       *time.Time `json:"posted_at,omitempty"`
	PaidByID       *uuid.UUID `gorm:"type:text" json:"paid_by_id,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	VoidedByID     *uuid.UUID `gorm:"type:text" json:"voided_by_id,omitempty"`
	VoidedAt       *time.Time `json:"voided_at,omitempty"`

	Lines        []PayrollRunLine `gorm:"foreignKey:PayrollRunID" json:"lines,omitempty"`
	Payslips     []Payslip        `gorm:"foreignKey:PayrollRunID" json:"payslips,omitempty"`
	JournalLinks []JournalLink    `gorm:"foreignKey:PayrollRunID" json:"journal_links,omitempty"`
}

func (PayrollRun) TableName() string { return "payroll_runs" }

// PayrollRunLine carries the per-user worked-hours aggregation computed
// by Calculate, written in user-id ascending order.
type PayrollRunLine struct {
	BaseModel
	OrgID         uuid.UUID       `gorm:"type:text;not null;index" json:"org_id"`
	PayrollRunID  uuid.UUID       `gorm:"type:text;not null;index" json:"payroll_run_id"`
	UserID        uuid.UUID       `gorm:"type:text;not null;index" json:"user_id"`
	RegularHours  decimal.Decimal `gorm:"type:numeric;not null" json:"regular_hours"`
	OvertimeHours decimal.Decimal `gorm:"type:numeric;not null" json:"overtime_hours"`
	BreakHours    decimal.Decimal `gorm:"type:numeric;not null" json:"break_hours"`
	PaidHours     decimal.Decimal `gorm:"type:numeric;not null" json:"paid_hours"`
}

func (PayrollRunLine) TableName() string { return "payroll_run_lines" }

// Payslip is the gross-to-net result for one user within a PayrollRun.
type Payslip struct {
	BaseModel
	OrgID        uuid.UUID `gorm:"type:text;not null;index" json:"org_id"`
	PayrollRunID uuid.UUID `gorm:"type:text;not null;index" json:"payroll_run_id"`
	UserID       uuid.UUID `gorm:"type:text;not null;index" json:"user_id"`

	GrossEarnings        decimal.Decimal `gorm:"type:numeric;not null" json:"gross_earnings"`
	PreTaxDeductions     decimal.Decimal `gorm:"type:numeric;not null" json:"pre_tax_deductions"`
	TaxableWages         decimal.Decimal `gorm:"type:numeric;not null" json:"taxable_wages"`
	TaxesWithheld        decimal.Decimal `gorm:"type:numeric;not null" json:"taxes_withheld"`
	PostTaxDeductions    decimal.Decimal `gorm:"type:numeric;not null" json:"post_tax_deductions"`
	NetPay               decimal.Decimal `gorm:"type:numeric;not null" json:"net_pay"`
	EmployerContribTotal decimal.Decimal `gorm:"type:numeric;not null" json:"employer_contrib_total"`
	TotalEmployerCost    decimal.Decimal `gorm:"type:numeric;not null" json:"total_employer_cost"`

	RoundingDriftNote string `gorm:"size:200" json:"rounding_drift_note,omitempty"`

	LineItems []PayslipLineItem `gorm:"foreignKey:PayslipID" json:"line_items,omitempty"`
}

func (Payslip) TableName() string { return "payslips" }

// PayslipLineItem is one CompensationComponent's contribution to a
// Payslip.
type PayslipLineItem struct {
	BaseModel
	OrgID         uuid.UUID       `gorm:"type:text;not null;index" json:"org_id"`
	PayslipID     uuid.UUID       `gorm:"type:text;not null;index" json:"payslip_id"`
	ComponentCode string          `gorm:"size:50;not null" json:"component_code"`
	ComponentType ComponentType   `gorm:"size:20;not null" json:"component_type"`
	Amount        decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
}

func (PayslipLineItem) TableName() string { return "payslip_line_items" }

// PayrollPostingMapping names the seven GL account pointers a payroll
// posting writes against. Scoped (org, optional branch); a branch row
// overrides the org default.
type PayrollPostingMapping struct {
	BaseModel
	OrgID    uuid.UUID  `gorm:"type:text;not null;index:idx_posting_map,priority:1" json:"org_id"`
	BranchID *uuid.UUID `gorm:"type:text;index:idx_posting_map,priority:2" json:"branch_id,omitempty"`

	LaborExpenseAccount           string `gorm:"size:100;not null" json:"labor_expense_account"`
	WagesPayableAccount           string `gorm:"size:100;not null" json:"wages_payable_account"`
	TaxesPayableAccount           string `gorm:"size:100;not null" json:"taxes_payable_account"`
	DeductionsPayableAccount      string `gorm:"size:100;not null" json:"deductions_payable_account"`
	EmployerContribExpenseAccount string `gorm:"size:100;not null" json:"employer_contrib_expense_account"`
	EmployerContribPayableAccount string `gorm:"size:100;not null" json:"employer_contrib_payable_account"`
	CashAccount                   string `gorm:"size:100;not null" json:"cash_account"`
}

func (PayrollPostingMapping) TableName() string { return "payroll_posting_mappings" }

type JournalSource string

const (
	JournalAccrual         JournalSource = "ACCRUAL"
	JournalPayment         JournalSource = "PAYMENT"
	JournalAccrualReversal JournalSource = "ACCRUAL_REVERSAL"
	JournalPaymentReversal JournalSource = "PAYMENT_REVERSAL"
)

// JournalEntry is a balanced double-entry GL posting: Sum(debits) ==
// Sum(credits), enforced before it is ever persisted.
type JournalEntry struct {
	BaseModel
	OrgID    uuid.UUID     `gorm:"type:text;not null;index" json:"org_id"`
	BranchID *uuid.UUID    `gorm:"type:text;index" json:"branch_id,omitempty"`
	Source   JournalSource `gorm:"size:20;not null" json:"source"`
	PostedAt time.Time     `gorm:"not null" json:"posted_at"`
	Reversed bool          `gorm:"default:false" json:"reversed"`

	Lines []JournalLine `gorm:"foreignKey:JournalEntryID" json:"lines,omitempty"`
}

func (JournalEntry) TableName() string { return "journal_entries" }

type JournalSide string

const (
	JournalDebit  JournalSide = "DEBIT"
	JournalCredit JournalSide = "CREDIT"
)

// JournalLine is one debit or credit leg of a JournalEntry. PayrollRunID
// and Component are carried for traceability back to the payslip that
// produced the line.
type JournalLine struct {
	BaseModel
	OrgID          uuid.UUID       `gorm:"type:text;not null;index" json:"org_id"`
	JournalEntryID uuid.UUID       `gorm:"type:text;not null;index" json:"journal_entry_id"`
	Account        string          `gorm:"size:100;not null" json:"account"`
	Side           JournalSide     `gorm:"size:6;not null" json:"side"`
	Amount         decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	PayrollRunID   uuid.UUID       `gorm:"type:text;not null;index" json:"payroll_run_id"`
	Component      string          `gorm:"size:100" json:"component"`
}

func (JournalLine) TableName() string { return "journal_lines" }

// JournalLink ties a PayrollRun to the journal entries its lifecycle
// has produced: exactly one ACCRUAL link once POSTED, plus exactly one
// PAYMENT link once PAID.
type JournalLink struct {
	BaseModel
	OrgID          uuid.UUID     `gorm:"type:text;not null;index:idx_journal_link,priority:1" json:"org_id"`
	PayrollRunID   uuid.UUID     `gorm:"type:text;not null" json:"payroll_run_id"`
	JournalEntryID uuid.UUID     `gorm:"type:text;not null" json:"journal_entry_id"`
	Type           JournalSource `gorm:"size:20;not null;index:idx_journal_link,priority:2" json:"type"`
}

func (JournalLink) TableName() string { return "journal_links" }
