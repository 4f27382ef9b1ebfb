package memory

import (
	"context"
	"sync"

	"github.com/yndnr/rentdash-go/internal/core/domain"
)

// RentalLog keeps the rentals booked by this process, oldest first.
type RentalLog struct {
	mu      sync.RWMutex
	rentals []domain.Rental
}

// NewRentalLog creates an empty rental log.
func NewRentalLog() *RentalLog {
	return &RentalLog{}
}

// Append records a rental.
func (l *RentalLog) Append(_ context.Context, r domain.Rental) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rentals = append(l.rentals, r)
	return nil
}

// List returns a copy of all recorded rentals.
func (l *RentalLog) List(_ context.Context) ([]domain.Rental, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Rental, len(l.rentals))
	copy(out, l.rentals)
	return out, nil
}

// Revenue returns the sum of all recorded rental totals.
func (l *RentalLog) Revenue(_ context.Context) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var sum int64
	for _, r := range l.rentals {
		sum += r.Total
	}
	return sum
}
