package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yndnr/rentdash-go/internal/core/domain"
	"github.com/yndnr/rentdash-go/pkg/cmap"
)

// VehicleFilter narrows Fleet.List.
type VehicleFilter struct {
	// Search matches model, brand or license plate, case-insensitive.
	Search string
	// Status restricts the result; empty matches every status.
	Status domain.VehicleStatus
}

// Fleet is the in-memory vehicle and customer catalogue.
type Fleet struct {
	vehicles  *cmap.Map[int64, domain.Vehicle]
	customers *cmap.Map[int64, domain.Customer]
}

// Option configures the Fleet.
type Option func(*Fleet)

// WithVehicles replaces the seed vehicles.
func WithVehicles(vs ...domain.Vehicle) Option {
	return func(f *Fleet) {
		f.vehicles.Clear()
		for _, v := range vs {
			f.vehicles.Set(v.ID, v)
		}
	}
}

// WithCustomers replaces the seed customers.
func WithCustomers(cs ...domain.Customer) Option {
	return func(f *Fleet) {
		f.customers.Clear()
		for _, c := range cs {
			f.customers.Set(c.ID, c)
		}
	}
}

// NewFleet creates a fleet populated with the default catalogue.
func NewFleet(opts ...Option) *Fleet {
	f := &Fleet{
		vehicles:  cmap.New[int64, domain.Vehicle](),
		customers: cmap.New[int64, domain.Customer](),
	}
	for _, v := range SeedVehicles() {
		f.vehicles.Set(v.ID, v)
	}
	for _, c := range SeedCustomers() {
		f.customers.Set(c.ID, c)
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// List returns the vehicles matching filter, ordered by ID.
func (f *Fleet) List(_ context.Context, filter VehicleFilter) ([]domain.Vehicle, error) {
	result := make([]domain.Vehicle, 0, f.vehicles.Count())
	f.vehicles.Range(func(_ int64, v domain.Vehicle) bool {
		if v.Matches(filter.Search, filter.Status) {
			result = append(result, v)
		}
		return true
	})

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// Get retrieves a vehicle by ID.
func (f *Fleet) Get(_ context.Context, id int64) (*domain.Vehicle, error) {
	v, ok := f.vehicles.Get(id)
	if !ok {
		return nil, domain.ErrVehicleNotFound.WithDetails(fmt.Sprintf("vehicle %d", id))
	}
	return &v, nil
}

// Rent marks an available vehicle as rented.
func (f *Fleet) Rent(_ context.Context, id int64) (*domain.Vehicle, error) {
	v, err := f.vehicles.Modify(id, func(cur domain.Vehicle) (domain.Vehicle, error) {
		if !cur.IsAvailable() {
			return cur, domain.ErrVehicleUnavailable.WithDetails(
				fmt.Sprintf("%s is %s", cur.DisplayName(), cur.Status))
		}
		cur.Status = domain.VehicleRented
		return cur, nil
	})
	if errors.Is(err, cmap.ErrNotFound) {
		return nil, domain.ErrVehicleNotFound.WithDetails(fmt.Sprintf("vehicle %d", id))
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Release puts a rented vehicle back to available. Other statuses are left
// unchanged.
func (f *Fleet) Release(_ context.Context, id int64) error {
	_, err := f.vehicles.Modify(id, func(cur domain.Vehicle) (domain.Vehicle, error) {
		if cur.Status == domain.VehicleRented {
			cur.Status = domain.VehicleAvailable
		}
		return cur, nil
	})
	if errors.Is(err, cmap.ErrNotFound) {
		return domain.ErrVehicleNotFound.WithDetails(fmt.Sprintf("vehicle %d", id))
	}
	return err
}

// CountByStatus returns the number of vehicles per status.
func (f *Fleet) CountByStatus(_ context.Context) map[domain.VehicleStatus]int {
	counts := make(map[domain.VehicleStatus]int, 3)
	f.vehicles.Range(func(_ int64, v domain.Vehicle) bool {
		counts[v.Status]++
		return true
	})
	return counts
}

// Customers returns all customers ordered by ID.
func (f *Fleet) Customers(_ context.Context) ([]domain.Customer, error) {
	result := f.customers.Values()
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Customer retrieves a customer by ID.
func (f *Fleet) Customer(_ context.Context, id int64) (*domain.Customer, error) {
	c, ok := f.customers.Get(id)
	if !ok {
		return nil, domain.ErrCustomerNotFound.WithDetails(fmt.Sprintf("customer %d", id))
	}
	return &c, nil
}

// ============================================================================
// Seed data
// ============================================================================

// SeedVehicles returns the default fleet.
func SeedVehicles() []domain.Vehicle {
	vs := []domain.Vehicle{
		{ID: 1, Brand: "Toyota", Model: "Camry", Year: 2022, LicensePlate: "ABC-123", Color: "Red", Rate: 45, Status: domain.VehicleAvailable},
		{ID: 2, Brand: "Honda", Model: "Civic", Year: 2021, LicensePlate: "XYZ-789", Color: "Blue", Rate: 40, Status: domain.VehicleAvailable},
		{ID: 3, Brand: "Tesla", Model: "Model 3", Year: 2023, LicensePlate: "DEF-456", Color: "White", Rate: 80, Status: domain.VehicleRented},
		{ID: 4, Brand: "Hyundai", Model: "Elantra", Year: 2021, LicensePlate: "GHI-789", Color: "Silver", Rate: 35, Status: domain.VehicleAvailable},
		{ID: 5, Brand: "Ford", Model: "Mustang", Year: 2020, LicensePlate: "JKL-012", Color: "Black", Rate: 70, Status: domain.VehicleMaintenance},
		{ID: 6, Brand: "BMW", Model: "X5", Year: 2022, LicensePlate: "MNO-345", Color: "Gray", Rate: 90, Status: domain.VehicleAvailable},
	}
	for i := range vs {
		vs[i].ImageURL = placeholderImage(vs[i])
	}
	return vs
}

// SeedCustomers returns the default customer list.
func SeedCustomers() []domain.Customer {
	return []domain.Customer{
		{ID: 1, Name: "John Doe", Email: "john.doe@example.com", Phone: "555-123-4567"},
		{ID: 2, Name: "Jane Smith", Email: "jane.smith@example.com", Phone: "555-987-6543"},
		{ID: 3, Name: "Mike Johnson", Email: "mike.johnson@example.com", Phone: "555-456-7890"},
		{ID: 4, Name: "Sarah Williams", Email: "sarah.williams@example.com", Phone: "555-789-1234"},
	}
}

func placeholderImage(v domain.Vehicle) string {
	text := strings.ReplaceAll(v.Brand+" "+v.Model, " ", "+")
	return "https://via.placeholder.com/300x200?text=" + text
}
