package domain

import (
	"strings"
)

// VehicleStatus is the availability of a fleet vehicle.
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleRented      VehicleStatus = "rented"
	VehicleMaintenance VehicleStatus = "maintenance"
)

// ValidVehicleStatuses returns all valid statuses.
func ValidVehicleStatuses() []VehicleStatus {
	return []VehicleStatus{VehicleAvailable, VehicleRented, VehicleMaintenance}
}

// ParseVehicleStatus parses a status filter. "all" and "" yield an empty
// status, which matches every vehicle.
func ParseVehicleStatus(s string) (VehicleStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return "", nil
	}
	for _, st := range ValidVehicleStatuses() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidStatus.WithDetails(s)
}

// Label returns the capitalized status for display.
func (s VehicleStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Vehicle is a car in the rental fleet.
type Vehicle struct {
	ID           int64         `json:"id"`
	Brand        string        `json:"brand"`
	Model        string        `json:"model"`
	Year         int           `json:"year"`
	LicensePlate string        `json:"licensePlate"`
	Color        string        `json:"color"`
	Rate         int64         `json:"rate"` // daily rate in whole dollars
	Status       VehicleStatus `json:"status"`
	ImageURL     string        `json:"imageUrl,omitempty" table:"IMAGE,wide"`
}

// DisplayName returns "Brand Model".
func (v Vehicle) DisplayName() string {
	return v.Brand + " " + v.Model
}

// IsAvailable reports whether the vehicle can be rented.
func (v Vehicle) IsAvailable() bool {
	return v.Status == VehicleAvailable
}

// Matches reports whether the vehicle matches the search term (model, brand
// or license plate, case-insensitive) and the status filter.
func (v Vehicle) Matches(term string, status VehicleStatus) bool {
	if status != "" && v.Status != status {
		return false
	}
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(v.Model), term) ||
		strings.Contains(strings.ToLower(v.Brand), term) ||
		strings.Contains(strings.ToLower(v.LicensePlate), term)
}

// Customer is a renter selectable on the rental form.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
