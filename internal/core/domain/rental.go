package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format used by the rental form.
const DateLayout = "2006-01-02"

// PaymentMethod is how a rental is paid.
type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentDebitCard    PaymentMethod = "debit_card"
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// DefaultPaymentMethod is preselected on the rental form.
const DefaultPaymentMethod = PaymentCreditCard

// ValidPaymentMethods returns all accepted payment methods.
func ValidPaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCreditCard, PaymentDebitCard, PaymentCash, PaymentBankTransfer}
}

// IsValidPaymentMethod checks if s is an accepted payment method.
func IsValidPaymentMethod(s string) bool {
	for _, m := range ValidPaymentMethods() {
		if string(m) == s {
			return true
		}
	}
	return false
}

// Label returns a human readable payment method.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCreditCard:
		return "Credit Card"
	case PaymentDebitCard:
		return "Debit Card"
	case PaymentCash:
		return "Cash"
	case PaymentBankTransfer:
		return "Bank Transfer"
	default:
		return string(m)
	}
}

// RentalDays returns the number of billable days between start and end.
//
// Partial days round up and a same-day rental counts as one day. If either
// date is missing the result is 0.
func RentalDays(start, end time.Time) int64 {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	diff := end.Sub(start)
	days := int64(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days
}

// ParseDate parses a form date. An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidArgument.WithDetails(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s))
	}
	return t, nil
}

// RentalRequest is the content of the rental form.
type RentalRequest struct {
	CustomerID    int64
	VehicleID     int64
	StartDate     time.Time
	EndDate       time.Time
	PaymentMethod PaymentMethod
	Notes         string
}

// Validate applies the form rules: every required field set, the range
// not reversed, and a known payment method.
func (r RentalRequest) Validate() error {
	if r.CustomerID == 0 || r.VehicleID == 0 || r.StartDate.IsZero() || r.EndDate.IsZero() {
		return ErrRentalMissingFields
	}
	if r.EndDate.Before(r.StartDate) || RentalDays(r.StartDate, r.EndDate) <= 0 {
		return ErrRentalInvalidRange
	}
	if r.PaymentMethod != "" && !IsValidPaymentMethod(string(r.PaymentMethod)) {
		return ErrInvalidPaymentMethod.WithDetails(string(r.PaymentMethod))
	}
	return nil
}

// Quote is the rental summary panel: what is selected so far and, once a
// vehicle and dates are known, the cost.
type Quote struct {
	Customer  *Customer `json:"customer,omitempty"`
	Vehicle   *Vehicle  `json:"vehicle,omitempty"`
	StartDate time.Time `json:"startDate,omitempty"`
	EndDate   time.Time `json:"endDate,omitempty"`
	Days      int64     `json:"days"`
	DailyRate int64     `json:"dailyRate"`
	Total     int64     `json:"total"`
}

// IsEmpty reports whether nothing has been selected yet.
func (q Quote) IsEmpty() bool {
	return q.Customer == nil && q.Vehicle == nil && q.Days == 0
}

// NewQuote computes the cost for the given selection. Either side may be nil.
func NewQuote(c *Customer, v *Vehicle, start, end time.Time) Quote {
	q := Quote{
		Customer:  c,
		Vehicle:   v,
		StartDate: start,
		EndDate:   end,
		Days:      RentalDays(start, end),
	}
	if v != nil {
		q.DailyRate = v.Rate
		q.Total = v.Rate * q.Days
	}
	return q
}

// Rental is a booked rental contract.
type Rental struct {
	Reference     string        `json:"reference"`
	Customer      Customer      `json:"customer"`
	Vehicle       Vehicle       `json:"vehicle"`
	StartDate     time.Time     `json:"startDate"`
	EndDate       time.Time     `json:"endDate"`
	Days          int64         `json:"days"`
	DailyRate     int64         `json:"dailyRate"`
	Total         int64         `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// NewRental books a rental from a complete quote.
func NewRental(q Quote, method PaymentMethod, notes string) (*Rental, error) {
	if q.Customer == nil || q.Vehicle == nil || q.Days == 0 {
		return nil, ErrRentalMissingFields
	}
	if method == "" {
		method = DefaultPaymentMethod
	}
	return &Rental{
		Reference:     "RNT-" + strings.ToUpper(uuid.NewString()[:8]),
		Customer:      *q.Customer,
		Vehicle:       *q.Vehicle,
		StartDate:     q.StartDate,
		EndDate:       q.EndDate,
		Days:          q.Days,
		DailyRate:     q.DailyRate,
		Total:         q.Total,
		PaymentMethod: method,
		Notes:         strings.TrimSpace(notes),
		CreatedAt:     time.Now(),
	}, nil
}
