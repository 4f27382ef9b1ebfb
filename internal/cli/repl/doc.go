// Package repl runs rentdash-cli commands interactively.
//
// One process serves the whole shell session, so the session gate is
// hydrated once and the cookie jar stays in memory between commands.
// Lines are split shell-style and handed to an Executor. Built-ins:
// help, history, exit and quit; a trailing "?" lists completions.
package repl
