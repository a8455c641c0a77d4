package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shiftcore/workforce/internal/audit"
	"github.com/shiftcore/workforce/internal/errs"
	"github.com/shiftcore/workforce/internal/models"
	"github.com/shiftcore/workforce/internal/models/enums"
	"github.com/shiftcore/workforce/internal/money"
	"github.com/shiftcore/workforce/internal/reqctx"
)

// ledgerLine is an unpersisted debit/credit leg, balanced before any
// JournalEntry is written.
type ledgerLine struct {
	account   string
	side      models.JournalSide
	amount    decimal.Decimal
	component string
}

func balanced(lines []ledgerLine) bool {
	debits, credits := money.Zero, money.Zero
	for _, l := range lines {
		if l.side == models.JournalDebit {
			debits = debits.Add(l.amount)
		} else {
			credits = credits.Add(l.amount)
		}
	}
	return debits.Equal(credits)
}

func (s *Service) writeJournal(ctx context.Context, tx *gorm.DB, rc reqctx.Context, run models.PayrollRun, source models.JournalSource, lines []ledgerLine, now time.Time) (*models.JournalEntry, error) {
	if !balanced(lines) {
		return nil, errs.New(errs.Integrity, "JOURNAL_UNBALANCED", "journal entry debits and credits do not balance")
	}
	entry := models.JournalEntry{
		OrgID:    rc.OrgID,
		BranchID: run.BranchID,
		Source:   source,
		PostedAt: now,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}
	for _, l := range lines {
		line := models.JournalLine{
			OrgID:          rc.OrgID,
			JournalEntryID: entry.ID,
			Account:        l.account,
			Side:           l.side,
			Amount:         money.Persist(l.amount),
			PayrollRunID:   run.ID,
			Component:      l.component,
		}
		if err := tx.Create(&line).Error; err != nil {
			return nil, err
		}
	}
	link := models.JournalLink{
		OrgID:          rc.OrgID,
		PayrollRunID:   run.ID,
		JournalEntryID: entry.ID,
		Type:           source,
	}
	if err := tx.Create(&link).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Service) postingMapping(tx *gorm.DB, rc reqctx.Context, run models.PayrollRun) (models.PayrollPostingMapping, error) {
	var mapping models.PayrollPostingMapping
	if run.BranchID != nil {
		err := tx.Where("org_id = ? AND branch_id = ?", rc.OrgID, *run.BranchID).First(&mapping).Error
		if err == nil {
			return mapping, nil
		}
		if err != gorm.ErrRecordNotFound {
			return mapping, err
		}
	}
	if err := tx.Where("org_id = ? AND branch_id IS NULL", rc.OrgID).First(&mapping).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return mapping, errs.New(errs.Validation, "NO_POSTING_MAPPING", "no payroll posting mapping configured for this org/branch")
		}
		return mapping, err
	}
	return mapping, nil
}

// Post runs the Accrual posting (APPROVED → POSTED): a balanced journal
// entry debiting labor expense and employer-contrib expense, crediting
// wages/taxes/deductions/employer-contrib payable.
func (s *Service) Post(ctx context.Context, rc reqctx.Context, runID uuid.UUID, now time.Time) (*models.PayrollRun, error) {
	if !rc.RequireRole(enums.RoleGeneralManager) {
		return nil, errs.New(errs.Forbidden, "INSUFFICIENT_ROLE", "posting payroll requires general manager role or above")
	}

	var run *models.PayrollRun
	err := s.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		var r models.PayrollRun
		if err := tx.First(&r, "id = ?", runID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.ErrNotFoundGeneric
			}
			return err
		}
		if r.OrgID != rc.OrgID {
			return errs.ErrCrossOrg
		}
		if r.Status != models.PayrollApproved {
			return errs.New(errs.StateConflict, "RUN_NOT_APPROVED", "payroll run must be APPROVED to post")
		}

		var existing models.JournalLink
		err := tx.Where("org_id = ? AND payroll_run_id = ? AND type = ?", rc.OrgID, runID, models.JournalAccrual).First(&existing).Error
		if err == nil {
			return errs.New(errs.IdempotentReplay, "ALREADY_POSTED", "payroll run already has an accrual posting")
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		mapping, err := s.postingMapping(tx, rc, r)
		if err != nil {
			return err
		}

		var payslips []models.Payslip
		if err := tx.Where("payroll_run_id = ?", runID).Order("user_id ASC").Find(&payslips).Error; err != nil {
			return err
		}
		if len(payslips) == 0 {
			return errs.New(errs.StateConflict, "NO_PAYSLIPS", "payroll run has no payslips to post; generate payslips first")
		}

		gross, net, taxes, deductions, employerContrib := money.Zero, money.Zero, money.Zero, money.Zero, money.Zero
		for _, p := range payslips {
			gross = gross.Add(p.GrossEarnings)
			net = net.Add(p.NetPay)
			taxes = taxes.Add(p.TaxesWithheld)
			deductions = deductions.Add(p.PreTaxDeductions).Add(p.PostTaxDeductions)
			employerContrib = employerContrib.Add(p.EmployerContribTotal)
		}

		lines := []ledgerLine{
			{account: mapping.LaborExpenseAccount, side: models.JournalDebit, amount: gross, component: "gross"},
			{account: mapping.EmployerContribExpenseAccount, side: models.JournalDebit, amount: employerContrib, component: "employer_contrib"},
			{account: mapping.WagesPayableAccount, side: models.JournalCredit, amount: net, component: "net"},
			{account: mapping.TaxesPayableAccount, side: models.JournalCredit, amount: taxes, component: "taxes"},
			{account: mapping.DeductionsPayableAccount, side: models.JournalCredit, amount: deductions, component: "deductions"},
			{account: mapping.EmployerContribPayableAccount, side: models.JournalCredit, amount: employerContrib, component: "employer_contrib"},
		}
		if _, err := s.writeJournal(ctx, tx, rc, r, models.JournalAccrual, lines, now); err != nil {
			return err
		}

		r.Status = models.PayrollPosted
		r.PostedByID = &rc.UserID
		r.PostedAt = &now
		if err := tx.Save(&r).Error; err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, rc.OrgID, rc.UserID, models.ActionPayrollPosted, "payroll_run", r.ID, r, now); err != nil {
			return err
		}
		run = &r
		return nil
	})
	return run, err
}

// Pay runs the Payment posting (POSTED → PAID): debit wages-payable,
// credit cash, both equal to aggregate net pay.
func (s *Service) Pay(ctx context.Context, rc reqctx.Context, runID uuid.UUID, now time.Time) (*models.PayrollRun, error) {
	if !rc.RequireRole(enums.RoleGeneralManager) {
		return nil, errs.New(errs.Forbidden, "INSUFFICIENT_ROLE", "paying payroll requires general manager role or above")
	}

	var run *models.PayrollRun
	err := s.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		var r models.PayrollRun
		if err := tx.First(&r, "id = ?", runID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.ErrNotFoundGeneric
			}
			return err
		}
		if r.OrgID != rc.OrgID {
			return errs.ErrCrossOrg
		}
		if r.Status != models.PayrollPosted {
			return errs.New(errs.StateConflict, "RUN_NOT_POSTED", "payroll run must be POSTED to pay")
		}

		var existing models.JournalLink
		err := tx.Where("org_id = ? AND payroll_run_id = ? AND type = ?", rc.OrgID, runID, models.JournalPayment).First(&existing).Error
		if err == nil {
			return errs.New(errs.IdempotentReplay, "ALREADY_PAID", "payroll run already has a payment posting")
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		mapping, err := s.postingMapping(tx, rc, r)
		if err != nil {
			return err
		}

		var payslips []models.Payslip
		if err := tx.Where("payroll_run_id = ?", runID).Find(&payslips).Error; err != nil {
			return err
		}
		net := money.Zero
		for _, p := range payslips {
			net = net.Add(p.NetPay)
		}

		lines := []ledgerLine{
			{account: mapping.WagesPayableAccount, side: models.JournalDebit, amount: net, component: "net"},
			{account: mapping.CashAccount, side: models.JournalCredit, amount: net, component: "net"},
		}
		if _, err := s.writeJournal(ctx, tx, rc, r, models.JournalPayment, lines, now); err != nil {
			return err
		}

		r.Status = models.PayrollPaid
		r.PaidByID = &rc.UserID
		r.PaidAt = &now
		if err := tx.Save(&r).Error; err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, rc.OrgID, rc.UserID, models.ActionPayrollPaid, "payroll_run", r.ID, r, now); err != nil {
			return err
		}
		run = &r
		return nil
	})
	return run, err
}

// Void reverses every journal linked to the run (POSTED or PAID → VOID):
// for each link, a new entry is written with every line's side flipped,
// the original entry is marked reversed, and the reversal is linked with
// the matching *_REVERSAL type.
func (s *Service) Void(ctx context.Context, rc reqctx.Context, runID uuid.UUID, now time.Time) (*models.PayrollRun, error) {
	if !rc.RequireRole(enums.RoleGeneralManager) {
		return nil, errs.New(errs.Forbidden, "INSUFFICIENT_ROLE", "voiding payroll requires general manager role or above")
	}

	var run *models.PayrollRun
	err := s.store.WithTransaction(ctx, func(tx *gorm.DB) error {
		var r models.PayrollRun
		if err := tx.First(&r, "id = ?", runID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errs.ErrNotFoundGeneric
			}
			return err
		}
		if r.OrgID != rc.OrgID {
			return errs.ErrCrossOrg
		}
		if r.Status != models.PayrollPosted && r.Status != models.PayrollPaid {
			return errs.New(errs.StateConflict, "RUN_NOT_VOIDABLE", "payroll run must be POSTED or PAID to void")
		}

		var links []models.JournalLink
		if err := tx.Where("org_id = ? AND payroll_run_id = ?", rc.OrgID, runID).Find(&links).Error; err != nil {
			return err
		}

		for _, link := range links {
			var original models.JournalEntry
			if err := tx.Preload("Lines").First(&original, "id = ?", link.JournalEntryID).Error; err != nil {
				return err
			}
			if original.Reversed {
				continue
			}

			reversalType := models.JournalAccrualReversal
			if link.Type == models.JournalPayment {
				reversalType = models.JournalPaymentReversal
			}

			flipped := make([]ledgerLine, len(original.Lines))
			for i, l := range original.Lines {
				side := models.JournalCredit
				if l.Side == models.JournalCredit {
					side = models.JournalDebit
				}
				flipped[i] = ledgerLine{account: l.Account, side: side, amount: l.Amount, component: l.Component}
			}
			if _, err := s.writeJournal(ctx, tx, rc, r, reversalType, flipped, now); err != nil {
				return err
			}

			original.Reversed = true
			if err := tx.Save(&original).Error; err != nil {
				return err
			}
		}

		r.Status = models.PayrollVoid
		r.VoidedByID = &rc.UserID
		r.VoidedAt = &now
		if err := tx.Save(&r).Error; err != nil {
			return err
		}
		if err := audit.Record(ctx, tx, rc.OrgID, rc.UserID, models.ActionPayrollVoided, "payroll_run", r.ID, r, now); err != nil {
			return err
		}
		run = &r
		return nil
	})
	return run, err
}
