package billing

import (
	"context"
	"fmt"
	"time"

	"gymbill/internal/email"
	"gymbill/internal/gym"
	"gymbill/internal/logger"
	"gymbill/internal/member"
	"gymbill/internal/metrics"

	"github.com/shopspring/decimal"
)

type Service interface {
	GenerateMonthlyBilling(ctx context.Context, gymID, year int, month time.Month, now time.Time) (*BillingDetail, error)
	GetBilling(ctx context.Context, gymID, year, month int) (*BillingDetail, error)
	ListBillings(ctx context.Context, gymID int) ([]GymBilling, error)
	RecordPayment(ctx context.Context, gymID, year, month int, amount decimal.Decimal, method string, now time.Time) (*GymBilling, error)
	SendBilling(ctx context.Context, gymID, year, month int) (*GymBilling, error)
	FinalizeBilling(ctx context.Context, gymID, year, month int, now time.Time) (*GymBilling, error)
}

type service struct {
	billingRepo  Repository
	memberRepo   member.Repository
	gymRepo      gym.Repository
	emailService *email.Service
}

func NewService(
	billingRepo Repository,
	memberRepo member.Repository,
	gymRepo gym.Repository,
	emailService *email.Service,
) Service {
	return &service{
		billingRepo:  billingRepo,
		memberRepo:   memberRepo,
		gymRepo:      gymRepo,
		emailService: emailService,
	}
}

// GenerateMonthlyBilling snapshots the pro-rated fee of every member whose
// membership overlaps the month and persists the aggregate. Regenerating an
// unfinalized month replaces the snapshot; existing payments are kept and
// reapplied against the new total.
func (s *service) GenerateMonthlyBilling(ctx context.Context, gymID, year int, month time.Month, now time.Time) (*BillingDetail, error) {
	g, err := s.gymRepo.GetGymByID(ctx, gymID)
	if err != nil {
		return nil, fmt.Errorf("gym not found: %w", err)
	}

	monthStart, monthEnd := MonthBounds(year, month)

	members, err := s.memberRepo.ListBillableInRange(ctx, gymID, monthStart, monthEnd)
	if err != nil {
		metrics.RecordBillingRun("failed")
		return nil, err
	}

	bills := make([]MemberBill, 0, len(members))
	for _, m := range members {
		if m.MembershipStartDate == nil || m.MembershipEndDate == nil {
			continue
		}
		cost, err := ProratedCost(m.MembershipFees, *m.MembershipStartDate, *m.MembershipEndDate, year, month)
		if err != nil {
			logger.Errorf("Skipping member %d in billing %d-%02d: %v", m.ID, year, month, err)
			continue
		}
		if cost.IsZero() {
			continue
		}
		bills = append(bills, MemberBill{
			MemberID:       m.ID,
			MembershipType: m.MembershipType,
			MonthlyFee:     cost,
		})
	}

	agg, err := Aggregate(bills)
	if err != nil {
		metrics.RecordBillingRun("failed")
		return nil, err
	}

	// Existing payments survive regeneration.
	var payments []Payment
	var previousStatus BillingStatus
	existing, err := s.billingRepo.GetByMonth(ctx, gymID, year, int(month))
	switch {
	case err == nil:
		if existing.IsFinalized {
			metrics.RecordBillingRun("rejected")
			return nil, ErrBillingFinalized
		}
		previousStatus = existing.BillingStatus
		for _, p := range existing.Payments {
			payments = append(payments, Payment{Amount: p.Amount, Method: p.Method, PaidAt: p.PaidAt})
		}
	case err == ErrBillingNotFound:
		previousStatus = StatusDraft
	default:
		metrics.RecordBillingRun("failed")
		return nil, err
	}

	deadline := PaymentDeadline(year, month, g.PaymentDeadlineDay)

	summary, err := ApplyPayments(agg.TotalBillAmount, payments, now, deadline)
	if err != nil {
		metrics.RecordBillingRun("failed")
		return nil, err
	}

	status := summary.Status
	if previousStatus == StatusDraft && summary.TotalPaidAmount.IsZero() {
		status = StatusDraft
	}

	b := &GymBilling{
		GymID:              gymID,
		BillingYear:        year,
		BillingMonth:       int(month),
		TotalBillAmount:    agg.TotalBillAmount,
		TotalPaidAmount:    summary.TotalPaidAmount,
		TotalPendingAmount: summary.TotalPendingAmount,
		TotalOverdueAmount: summary.TotalOverdueAmount,
		BillingStatus:      status,
		PaymentDeadline:    deadline,
	}

	if _, err := s.billingRepo.ReplaceForMonth(ctx, b, bills); err != nil {
		metrics.RecordBillingRun("failed")
		return nil, err
	}

	logger.Infof("Billing generated: Gym=%d, Month=%d-%02d, Members=%d, Total=%s",
		gymID, year, month, len(bills), agg.TotalBillAmount.StringFixed(2))
	metrics.RecordBillingRun("ok")

	return s.billingRepo.GetByMonth(ctx, gymID, year, int(month))
}

func (s *service) GetBilling(ctx context.Context, gymID, year, month int) (*BillingDetail, error) {
	return s.billingRepo.GetByMonth(ctx, gymID, year, month)
}

func (s *service) ListBillings(ctx context.Context, gymID int) ([]GymBilling, error) {
	return s.billingRepo.ListByGym(ctx, gymID)
}

func (s *service) RecordPayment(ctx context.Context, gymID, year, month int, amount decimal.Decimal, method string, now time.Time) (*GymBilling, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	updated, err := s.billingRepo.AddPayment(ctx, gymID, year, month, amount, method, now)
	if err != nil {
		return nil, err
	}

	logger.Infof("Payment recorded: Gym=%d, Month=%d-%02d, Amount=%s, Status=%s",
		gymID, year, month, amount.StringFixed(2), updated.BillingStatus)
	metrics.RecordPayment(method)

	if g, err := s.gymRepo.GetGymByID(ctx, gymID); err == nil {
		s.emailService.SendPaymentReceived(ctx, g.ContactEmail, g.Name,
			amount.StringFixed(2), g.Currency, fmt.Sprintf("%d-%02d", year, month))
	}

	return updated, nil
}

func (s *service) SendBilling(ctx context.Context, gymID, year, month int) (*GymBilling, error) {
	b, err := s.billingRepo.MarkSent(ctx, gymID, year, month)
	if err != nil {
		return nil, err
	}

	if g, err := s.gymRepo.GetGymByID(ctx, gymID); err == nil {
		s.emailService.SendBillingIssued(ctx, g.ContactEmail, g.Name,
			fmt.Sprintf("%d-%02d", year, month),
			b.TotalBillAmount.StringFixed(2), g.Currency,
			b.PaymentDeadline)
	}

	return b, nil
}

func (s *service) FinalizeBilling(ctx context.Context, gymID, year, month int, now time.Time) (*GymBilling, error) {
	b, err := s.billingRepo.Finalize(ctx, gymID, year, month, now)
	if err != nil {
		return nil, err
	}

	logger.Infof("Billing finalized: Gym=%d, Month=%d-%02d", gymID, year, month)
	return b, nil
}

// PaymentDeadline is the gym's deadline day in the month after the billing
// month.
func PaymentDeadline(year int, month time.Month, deadlineDay int) time.Time {
	if deadlineDay < 1 || deadlineDay > 28 {
		deadlineDay = 10
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, deadlineDay-1)
}
