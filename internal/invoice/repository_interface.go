package invoice

import "context"

type Repository interface {
	SequenceStore
	CreateInvoice(ctx context.Context, inv *Invoice, items []InvoiceItem) (*InvoiceWithItems, error)
	GetByNumber(ctx context.Context, gymID int, invoiceNumber string) (*InvoiceWithItems, error)
	ListByGym(ctx context.Context, gymID int) ([]Invoice, error)
}
