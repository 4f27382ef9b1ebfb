package service

import (
	"context"

	"github.com/yndnr/rentdash-go/internal/core/domain"
	"github.com/yndnr/rentdash-go/internal/telemetry/logger"
)

// Catalogue resolves the vehicles and customers a rental refers to.
type Catalogue interface {
	Get(ctx context.Context, id int64) (*domain.Vehicle, error)
	Rent(ctx context.Context, id int64) (*domain.Vehicle, error)
	Release(ctx context.Context, id int64) error
	Customer(ctx context.Context, id int64) (*domain.Customer, error)
}

// RentalRecorder keeps booked rentals.
type RentalRecorder interface {
	Append(ctx context.Context, r domain.Rental) error
	List(ctx context.Context) ([]domain.Rental, error)
}

// RentalDesk quotes and books rentals. Bookings stay local; the backend has
// no rental endpoint.
type RentalDesk struct {
	catalogue Catalogue
	rentals   RentalRecorder
}

// NewRentalDesk creates a rental desk.
func NewRentalDesk(catalogue Catalogue, rentals RentalRecorder) *RentalDesk {
	return &RentalDesk{
		catalogue: catalogue,
		rentals:   rentals,
	}
}

// Quote returns the rental summary for a possibly incomplete request.
// Unset IDs and dates are left out of the quote; unknown IDs are errors.
func (d *RentalDesk) Quote(ctx context.Context, req domain.RentalRequest) (domain.Quote, error) {
	var (
		customer *domain.Customer
		vehicle  *domain.Vehicle
		err      error
	)

	if req.CustomerID != 0 {
		if customer, err = d.catalogue.Customer(ctx, req.CustomerID); err != nil {
			return domain.Quote{}, err
		}
	}
	if req.VehicleID != 0 {
		if vehicle, err = d.catalogue.Get(ctx, req.VehicleID); err != nil {
			return domain.Quote{}, err
		}
	}

	return domain.NewQuote(customer, vehicle, req.StartDate, req.EndDate), nil
}

// Book validates req, marks the vehicle as rented and records the rental.
func (d *RentalDesk) Book(ctx context.Context, req domain.RentalRequest) (*domain.Rental, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	quote, err := d.Quote(ctx, req)
	if err != nil {
		return nil, err
	}

	rental, err := domain.NewRental(quote, req.PaymentMethod, req.Notes)
	if err != nil {
		return nil, err
	}

	vehicle, err := d.catalogue.Rent(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	rental.Vehicle = *vehicle

	// A rental that is not recorded must not keep the vehicle.
	if err := d.rentals.Append(ctx, *rental); err != nil {
		if relErr := d.catalogue.Release(ctx, req.VehicleID); relErr != nil {
			logger.L(ctx).Warn("failed to release vehicle", "vehicle_id", req.VehicleID, "error", relErr)
		}
		return nil, err
	}

	logger.L(ctx).Info("rental booked",
		"reference", rental.Reference,
		"vehicle_id", rental.Vehicle.ID,
		"customer_id", rental.Customer.ID,
		"days", rental.Days,
		"total", rental.Total,
	)
	return rental, nil
}

// Rentals returns the rentals booked so far, oldest first.
func (d *RentalDesk) Rentals(ctx context.Context) ([]domain.Rental, error) {
	return d.rentals.List(ctx)
}
