package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Executor runs one parsed command line.
type Executor func(ctx context.Context, args []string) error

// ErrUnterminatedQuote is returned for a line with an open quote.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	exec      Executor
	prompt    func() string
	completer *Completer
	history   *History
}

// Option configures a REPL.
type Option func(*REPL)

// WithInput sets the input reader.
func WithInput(r io.Reader) Option {
	return func(repl *REPL) { repl.input = r }
}

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option {
	return func(repl *REPL) { repl.output = w }
}

// WithPrompt sets a function evaluated before each line.
func WithPrompt(fn func() string) Option {
	return func(repl *REPL) { repl.prompt = fn }
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(repl *REPL) { repl.history = h }
}

// WithCompleter sets the completer.
func WithCompleter(c *Completer) Option {
	return func(repl *REPL) { repl.completer = c }
}

// New creates a REPL that hands each line to exec.
func New(exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		exec:      exec,
		prompt:    func() string { return "rentdash> " },
		completer: NewCompleter(DefaultCommands...),
		history:   NewHistory("", DefaultHistorySize),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads lines until exit, EOF or ctx is done. Command errors are
// printed and do not end the loop.
//
// When the input is a *bufio.Reader it is read directly, so commands that
// prompt on the same reader see the lines that follow theirs.
func (r *REPL) Run(ctx context.Context) error {
	reader, ok := r.input.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(r.input)
	}

	for ctx.Err() == nil {
		fmt.Fprint(r.output, r.prompt())

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := err != nil

		if line = strings.TrimSpace(line); line != "" {
			if !r.handle(ctx, line) {
				return nil
			}
		}
		if eof {
			fmt.Fprintln(r.output)
			return nil
		}
	}
	return nil
}

// handle runs one line and reports whether the loop should continue.
func (r *REPL) handle(ctx context.Context, line string) bool {
	if prefix, ok := strings.CutSuffix(line, "?"); ok {
		r.printCompletions(strings.TrimSpace(prefix))
		return true
	}

	r.history.Add(line)

	switch line {
	case "exit", "quit":
		return false
	case "help":
		r.printCompletions("")
		return true
	case "history":
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
		}
		return true
	}

	args, err := SplitArgs(line)
	if err != nil {
		fmt.Fprintf(r.output, "Error: %v\n", err)
		return true
	}
	if err := r.exec(ctx, args); err != nil {
		fmt.Fprintf(r.output, "Error: %v\n", err)
	}
	return true
}

func (r *REPL) printCompletions(prefix string) {
	for _, s := range r.completer.Complete(prefix) {
		fmt.Fprintln(r.output, "  "+s)
	}
}

// SplitArgs splits a line into words. Single and double quotes group
// words; a backslash escapes the next character outside single quotes.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, c := range line {
		switch {
		case escaped:
			cur.WriteRune(c)
			escaped = false
		case c == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				cur.WriteRune(c)
			}
		case c == '"' || c == '\'':
			quote = c
			inWord = true
		case c == ' ' || c == '\t':
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(c)
			inWord = true
		}
	}

	if quote != 0 || escaped {
		return nil, ErrUnterminatedQuote
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}
