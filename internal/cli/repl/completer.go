package repl

import (
	"slices"
	"strings"
)

// DefaultCommands are the command lines offered for completion.
var DefaultCommands = []string{
	"login", "register", "logout", "whoami",
	"dashboard",
	"users list", "users get", "users add", "users update", "users delete",
	"cars list", "cars get", "cars rent",
	"rental customers", "rental quote", "rental create", "rental list",
	"config show", "config validate", "config init",
	"system version", "system metrics",
	"help", "history", "exit", "quit",
}

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a completer over the given command lines.
func NewCompleter(commands ...string) *Completer {
	c := &Completer{commands: slices.Clone(commands)}
	slices.Sort(c.commands)
	return c
}

// Complete returns the commands starting with prefix. Repeated spaces in
// prefix are ignored.
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.Join(strings.Fields(prefix), " ")
	var out []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			out = append(out, cmd)
		}
	}
	return out
}
