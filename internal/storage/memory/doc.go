// Package memory provides in-memory storage for RentDash.
//
// The fleet catalogue and the customer list are not served by the backend,
// so the console keeps them in process:
//
//   - Fleet: vehicles and customers, backed by sharded concurrent maps
//   - RentalLog: rentals booked during the current process
//
// Thread Safety:
//
// All operations are thread-safe. Values are returned by copy, callers
// never hold references into the store.
package memory
