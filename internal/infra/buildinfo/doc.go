// Package buildinfo exposes version information injected at link time:
//
//	go build -ldflags "-X github.com/yndnr/rentdash-go/internal/infra/buildinfo.Version=v1.2.0"
//
// The same version is sent to the backend in the User-Agent header.
package buildinfo
