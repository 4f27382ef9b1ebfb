// Package connection provides the backend transport for rentdash-cli.
//
// This package manages the link to the RentDash REST backend:
//
//   - http.go: HTTP client with request ids, rate limiting and metrics
//   - errors.go: APIError and the status sentinels matched with errors.Is
//   - api.go: typed endpoint calls with { "data": ... } envelope unwrapping
//   - jar.go: cookie jar that carries the opaque session cookie
//   - session.go: encrypted on-disk copy of the jar between invocations
//   - manager.go: connection lifecycle tying the pieces together
//
// The session cookie is never read by application code. It flows from
// Set-Cookie headers into the jar and from the jar into later requests.
package connection
