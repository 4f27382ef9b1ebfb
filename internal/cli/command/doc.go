// Package command defines the rentdash-cli commands on urfave/cli/v2.
//
//   - root.go: the app, global flags and Run
//   - runtime.go: per-process state shared by commands
//   - auth.go: login, register, logout, whoami
//   - users.go: user directory management
//   - cars.go, rental.go: fleet browsing and bookings
//   - dashboard.go: the overview screen
//   - config.go, system.go: local configuration and diagnostics
//   - shell.go: interactive mode
//
// Every command except login, register, logout, config, system and shell is
// protected: it hydrates the session first and is refused unless the
// route guard admits it.
package command
