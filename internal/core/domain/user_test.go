package domain

import (
	"errors"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestUserInput_Validate(t *testing.T) {
	tests := []struct {
		name  string
		input UserInput
		ok    bool
	}{
		{"valid", UserInput{Name: "John Doe", Email: "john@example.com", Password: "secret"}, true},
		{"empty name", UserInput{Email: "john@example.com", Password: "secret"}, false},
		{"short name", UserInput{Name: "J", Email: "john@example.com", Password: "secret"}, false},
		{"bad email", UserInput{Name: "John", Email: "john", Password: "secret"}, false},
		{"email without tld", UserInput{Name: "John", Email: "john@localhost", Password: "secret"}, false},
		{"short password", UserInput{Name: "John", Email: "john@example.com", Password: "abc"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrUserValidation) {
				t.Errorf("Validate() = %v, want ErrUserValidation", err)
			}
		})
	}
}

func TestUserPatch_WritableStripsServerFields(t *testing.T) {
	now := time.Now()
	p := PatchFromUser(User{ID: 7, Name: "Ann", Email: "ann@example.com", CreatedAt: now, UpdatedAt: now})
	p.Password = strPtr("newpass")

	w := p.Writable()
	if w.Name == nil || *w.Name != "Ann" {
		t.Errorf("Name = %v", w.Name)
	}
	if w.Password == nil || *w.Password != "newpass" {
		t.Errorf("Password = %v", w.Password)
	}
}

func TestUserUpdate_Validate(t *testing.T) {
	if err := (UserUpdate{}).Validate(); !errors.Is(err, ErrEmptyPatch) {
		t.Errorf("empty update: got %v", err)
	}
	if err := (UserUpdate{Password: strPtr("newpass")}).Validate(); err != nil {
		t.Errorf("password only: got %v", err)
	}
	if err := (UserUpdate{Email: strPtr("nope")}).Validate(); !errors.Is(err, ErrUserValidation) {
		t.Errorf("bad email: got %v", err)
	}
}

func TestUser_Matches(t *testing.T) {
	u := User{Name: "Jane Smith", Email: "jane.smith@example.com"}
	for _, term := range []string{"", "jane", "SMITH", "example.com"} {
		if !u.Matches(term) {
			t.Errorf("Matches(%q) = false", term)
		}
	}
	if u.Matches("mike") {
		t.Error("Matches(mike) = true")
	}
}

func TestVehicle_Matches(t *testing.T) {
	v := Vehicle{Brand: "Tesla", Model: "Model 3", LicensePlate: "DEF-456", Status: VehicleRented}

	if !v.Matches("tesla", "") || !v.Matches("def-", VehicleRented) {
		t.Error("expected match")
	}
	if v.Matches("", VehicleAvailable) {
		t.Error("status filter should exclude rented vehicle")
	}
	if v.Matches("honda", "") {
		t.Error("unexpected match")
	}
}

func TestParseVehicleStatus(t *testing.T) {
	for _, s := range []string{"", "all", "ALL"} {
		st, err := ParseVehicleStatus(s)
		if err != nil || st != "" {
			t.Errorf("ParseVehicleStatus(%q) = %q, %v", s, st, err)
		}
	}
	st, err := ParseVehicleStatus("Maintenance")
	if err != nil || st != VehicleMaintenance {
		t.Errorf("ParseVehicleStatus(Maintenance) = %q, %v", st, err)
	}
	if _, err := ParseVehicleStatus("sold"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if VehicleAvailable.Label() != "Available" {
		t.Errorf("Label = %q", VehicleAvailable.Label())
	}
}
