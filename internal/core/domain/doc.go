// Package domain defines the core domain models for RentDash.
//
// Domain models are pure value objects without any IO dependencies or
// framework coupling. This package contains:
//
//   - User: the public record of a backend account, plus create and
//     partial-update payloads
//   - Vehicle and Customer: the fleet catalogue shown on the rental screens
//   - Rental: rental form validation, day counting, quotes and bookings
//   - Errors: domain error codes (RD-<AREA>-<NNNN>)
package domain
