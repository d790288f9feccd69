package invoice

import (
	"context"
	"time"

	"gymbill/internal/email"
	"gymbill/internal/gym"
	"gymbill/internal/logger"
	"gymbill/internal/metrics"

	"github.com/shopspring/decimal"
)

type Service interface {
	CreateInvoice(ctx context.Context, gymID int, memberID *int, items []InvoiceItem, dueDate time.Time) (*InvoiceWithItems, error)
	GetInvoice(ctx context.Context, gymID int, invoiceNumber string) (*InvoiceWithItems, error)
	ListInvoices(ctx context.Context, gymID int) ([]Invoice, error)
}

type service struct {
	repo         Repository
	gymRepo      gym.Repository
	allocator    *Allocator
	emailService *email.Service
}

func NewService(repo Repository, gymRepo gym.Repository, emailService *email.Service) Service {
	return &service{
		repo:         repo,
		gymRepo:      gymRepo,
		allocator:    NewAllocator(repo),
		emailService: emailService,
	}
}

// CreateInvoice allocates the next tenant-scoped invoice number and stores
// the invoice. The number is assigned exactly once; when allocation fails
// no invoice is created.
func (s *service) CreateInvoice(ctx context.Context, gymID int, memberID *int, items []InvoiceItem, dueDate time.Time) (*InvoiceWithItems, error) {
	g, err := s.gymRepo.GetGymByID(ctx, gymID)
	if err != nil {
		return nil, err
	}

	amount := decimal.Zero
	for i := range items {
		items[i].Amount = items[i].UnitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		amount = amount.Add(items[i].Amount)
	}

	number, err := s.allocator.Allocate(ctx, gymID, g.Code)
	if err != nil {
		logger.Errorf("Failed to allocate invoice number for gym %d: %v", gymID, err)
		return nil, err
	}

	inv := &Invoice{
		GymID:         gymID,
		MemberID:      memberID,
		InvoiceNumber: number,
		Amount:        amount,
		DueDate:       dueDate,
	}

	created, err := s.repo.CreateInvoice(ctx, inv, items)
	if err != nil {
		return nil, err
	}

	logger.Infof("Invoice created: Number=%s, Gym=%d, Amount=%s", number, gymID, amount.StringFixed(2))
	metrics.RecordInvoice(g.Code)

	s.emailService.SendInvoiceIssued(ctx, g.ContactEmail, g.Name, number,
		amount.StringFixed(2), g.Currency, dueDate)

	return created, nil
}

func (s *service) GetInvoice(ctx context.Context, gymID int, invoiceNumber string) (*InvoiceWithItems, error) {
	return s.repo.GetByNumber(ctx, gymID, invoiceNumber)
}

func (s *service) ListInvoices(ctx context.Context, gymID int) ([]Invoice, error) {
	return s.repo.ListByGym(ctx, gymID)
}
