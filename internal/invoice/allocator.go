package invoice

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

var ErrAllocationFailed = errors.New("invoice number allocation failed")

// SequenceStore advances a per-tenant counter. Implementations must
// serialize concurrent calls for the same gym so two allocations never see
// the same value.
type SequenceStore interface {
	Next(ctx context.Context, gymID int) (int64, error)
}

// Allocator turns per-tenant sequence values into invoice numbers of the
// form {gymCode}{6-digit zero-padded sequence}, e.g. GYM000042.
type Allocator struct {
	store SequenceStore
}

func NewAllocator(store SequenceStore) *Allocator {
	return &Allocator{store: store}
}

func (a *Allocator) Allocate(ctx context.Context, gymID int, gymCode string) (string, error) {
	seq, err := a.store.Next(ctx, gymID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAllocationFailed, err)
	}
	return FormatNumber(gymCode, seq), nil
}

func FormatNumber(gymCode string, seq int64) string {
	return fmt.Sprintf("%s%06d", gymCode, seq)
}

var numberSuffix = regexp.MustCompile(`(\d+)$`)

// ParseNumber extracts the sequence value from an invoice number with the
// given tenant prefix. Used for display and data migration, never for
// allocation.
func ParseNumber(gymCode, invoiceNumber string) (int64, error) {
	if len(invoiceNumber) <= len(gymCode) || invoiceNumber[:len(gymCode)] != gymCode {
		return 0, fmt.Errorf("invoice number %q does not match prefix %q", invoiceNumber, gymCode)
	}
	match := numberSuffix.FindString(invoiceNumber[len(gymCode):])
	if match == "" {
		return 0, fmt.Errorf("invoice number %q has no numeric suffix", invoiceNumber)
	}
	return strconv.ParseInt(match, 10, 64)
}
