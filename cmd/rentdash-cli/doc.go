// Package main provides the entry point for rentdash-cli.
//
// The CLI is a terminal front end for the RentDash backend:
//
//   - Sign in, register and sign out
//   - Dashboard overview of the fleet and bookings
//   - User directory management (list, get, add, update, delete)
//   - Fleet browsing and rental bookings
//   - Configuration and diagnostics
//
// Usage:
//
//	rentdash-cli login --email ann@example.com
//	rentdash-cli users list --search smith
//	rentdash-cli -o json cars list --status available
//	rentdash-cli shell
//
// The CLI supports both single-command mode and interactive shell mode.
package main
