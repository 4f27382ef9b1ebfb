// Package service provides the state containers behind the RentDash console.
//
// Services own process-wide client state and mediate every network call
// that changes it. They depend on small interfaces for the backend and the
// fleet catalogue, so tests construct isolated instances with fakes.
//
// This package contains:
//
//   - SessionGate: who is signed in, with login, registration, logout and
//     cookie-based hydration
//   - Guard: the protected-command decision derived from a session snapshot
//   - UserDirectory: a cached copy of the backend user collection with
//     confirmed-only mutations
//   - RentalDesk: rental quotes and bookings against the fleet catalogue
//
// State is replaced, never mutated in place. Snapshot methods return copies
// that are safe to read from any goroutine.
package service
