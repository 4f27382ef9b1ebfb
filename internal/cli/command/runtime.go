package command

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/yndnr/rentdash-go/internal/cli/config"
	"github.com/yndnr/rentdash-go/internal/cli/connection"
	"github.com/yndnr/rentdash-go/internal/cli/output"
	"github.com/yndnr/rentdash-go/internal/core/domain"
	"github.com/yndnr/rentdash-go/internal/core/service"
	"github.com/yndnr/rentdash-go/internal/infra/buildinfo"
	"github.com/yndnr/rentdash-go/internal/infra/shutdown"
	"github.com/yndnr/rentdash-go/internal/storage/memory"
	"github.com/yndnr/rentdash-go/internal/telemetry/logger"
	"github.com/yndnr/rentdash-go/internal/telemetry/metric"
)

// Runtime is the state one process shares across commands. In the shell
// it lives for the whole session.
type Runtime struct {
	mu         sync.RWMutex
	cfg        *config.CLIConfig
	cfgErr     error
	configPath string
	overrides  map[string]any

	lines    *bufio.Reader
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	password PasswordReader
	now      func() time.Time

	log      logger.Logger
	metrics  *metric.Registry
	shutdown *shutdown.Handler

	fleet   *memory.Fleet
	rentals *memory.RentalLog
	desk    *service.RentalDesk

	conn      *connection.Manager
	gate      *service.SessionGate
	users     *service.UserDirectory
	connected bool
	hydrated  bool
	inShell   bool
}

func runtimeOf(app *cli.App) *Runtime {
	rt, _ := app.Metadata[metaRuntime].(*Runtime)
	return rt
}

// runtimeFrom returns the runtime set up by the app's Before hook.
func runtimeFrom(c *cli.Context) (*Runtime, error) {
	if rt := runtimeOf(c.App); rt != nil {
		return rt, nil
	}
	return nil, errors.New("runtime not initialised")
}

func setupRuntime(c *cli.Context, s *settings) error {
	if rt := runtimeOf(c.App); rt != nil {
		c.Context = rt.commandContext(c)
		return nil
	}

	path := c.String("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	overrides := flagOverrides(c)

	cfg, err := config.Load(path, overrides)
	if err != nil {
		return err
	}

	rt := newRuntime(cfg, config.ExpandHome(path), overrides, s)
	c.App.Metadata[metaRuntime] = rt
	c.Context = rt.commandContext(c)
	return nil
}

func newRuntime(cfg *config.CLIConfig, path string, overrides map[string]any, s *settings) *Runtime {
	lines, ok := s.in.(*bufio.Reader)
	if !ok {
		lines = bufio.NewReader(s.in)
	}

	rt := &Runtime{
		cfg:        cfg,
		cfgErr:     cfg.Validate(),
		configPath: path,
		overrides:  overrides,
		lines:      lines,
		in:         s.in,
		out:        s.out,
		errOut:     s.errOut,
		password:   s.password,
		now:        s.now,
		metrics:    metric.NewRegistry(),
		shutdown:   shutdown.NewHandler(shutdown.DefaultTimeout),
		fleet:      memory.NewFleet(),
		rentals:    memory.NewRentalLog(),
	}
	rt.initLogger()

	rt.desk = service.NewRentalDesk(rt.fleet, rt.rentals)
	rt.conn = connection.NewManager(rt.metrics)
	rt.metrics.MustRegister(metric.NewCollector(rt.fleetCounts))
	return rt
}

// initLogger installs a logger for the current config. An invalid level
// or format falls back to the defaults; Validate reports it.
func (rt *Runtime) initLogger() {
	cfg := rt.config()
	l, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: rt.errOut,
	})
	if err != nil {
		def := logger.DefaultConfig()
		def.Output = rt.errOut
		l, _ = logger.New(def)
	}
	logger.SetDefault(l)
	rt.log = l
}

func (rt *Runtime) commandContext(c *cli.Context) context.Context {
	ctx := logger.WithLogger(c.Context, rt.log)
	if name := c.Args().First(); name != "" {
		ctx = logger.WithCommand(ctx, name)
	}
	return ctx
}

func (rt *Runtime) config() *config.CLIConfig {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.cfg
}

func (rt *Runtime) fleetCounts() map[string]int {
	counts := rt.fleet.CountByStatus(context.Background())
	out := make(map[string]int, len(counts))
	for status, n := range counts {
		out[string(status)] = n
	}
	return out
}

// ============================================================================
// Session
// ============================================================================

// connect builds the backend transport and the session and user stores.
// It does not contact the backend.
func (rt *Runtime) connect(ctx context.Context) error {
	if rt.connected {
		return nil
	}
	if rt.cfgErr != nil {
		return fmt.Errorf("invalid configuration in %s: %w", rt.configPath, rt.cfgErr)
	}

	cfg := rt.config()
	err := rt.conn.Connect(ctx, &connection.Connection{
		BaseURL:    cfg.Backend.URL,
		Timeout:    cfg.Backend.Timeout,
		RateLimit:  cfg.Backend.RateLimit,
		UserAgent:  buildinfo.UserAgent(),
		SessionDir: cfg.Session.Dir,
		Persist:    cfg.Session.Persist,
	})
	if err != nil {
		return err
	}

	api := rt.conn.API()
	rt.gate = service.NewSessionGate(api, service.WithTransitionHook(func(s service.SessionState) {
		rt.metrics.ObserveSessionState(s.String())
		rt.log.Debug("session state changed", "state", s.String())
	}))
	rt.users = service.NewUserDirectory(api)
	rt.shutdown.OnShutdown("connection", rt.conn.Disconnect)
	rt.connected = true
	return nil
}

// hydrate resolves the session once per process. A spinner stands in for
// the unknown state when stderr is a terminal.
func (rt *Runtime) hydrate(ctx context.Context) error {
	if err := rt.connect(ctx); err != nil {
		return err
	}
	if rt.hydrated {
		return nil
	}

	var spin *output.Spinner
	if isTerminal(rt.errOut) {
		spin = output.NewSpinner(rt.errOut, "Checking session")
		spin.Start()
	}
	rt.gate.FetchUser(ctx)
	if spin != nil {
		spin.Stop()
	}

	rt.hydrated = true
	return nil
}

// requireUser runs the route guard for a protected command.
func (rt *Runtime) requireUser(ctx context.Context) (*domain.User, error) {
	if err := rt.hydrate(ctx); err != nil {
		return nil, err
	}

	snap := rt.gate.Snapshot()
	switch service.Guard(snap) {
	case service.DecisionAdmit:
		return snap.User, nil
	case service.DecisionWait:
		return nil, domain.ErrNotSignedIn.WithDetails("session is still loading")
	default:
		return nil, domain.ErrNotSignedIn.WithDetails("run " + AppName + " login")
	}
}

// flush persists cookies set by the last command.
func (rt *Runtime) flush(ctx context.Context) {
	if !rt.connected {
		return
	}
	if err := rt.conn.Flush(ctx); err != nil {
		rt.log.Warn("failed to save session", "error", err)
	}
}

// Close runs the shutdown hooks.
func (rt *Runtime) Close(ctx context.Context) error {
	return rt.shutdown.Run(ctx)
}

// ============================================================================
// Errors
// ============================================================================

// displayError carries the message shown to the user alongside the
// underlying error.
type displayError struct {
	msg string
	err error
}

func (e *displayError) Error() string { return e.msg }
func (e *displayError) Unwrap() error { return e.err }

// sessionFailure reports the gate's LastError and clears it.
func (rt *Runtime) sessionFailure(err error) error {
	msg := rt.gate.Snapshot().LastError
	rt.gate.ClearError()
	if msg == "" {
		return err
	}
	return &displayError{msg: msg, err: err}
}

// directoryFailure reports the directory's LastError and clears it.
func (rt *Runtime) directoryFailure(ctx context.Context, err error) error {
	rt.checkExpired(ctx, err)
	msg := rt.users.Snapshot().LastError
	rt.users.ClearError()
	if msg == "" {
		return err
	}
	return &displayError{msg: msg, err: err}
}

// checkExpired re-resolves the session after the backend rejected the
// cookie, so the guard sends later commands back to login.
func (rt *Runtime) checkExpired(ctx context.Context, err error) {
	if !errors.Is(err, connection.ErrUnauthorized) {
		return
	}
	rt.log.Warn("Session expired")
	rt.gate.FetchUser(ctx)
}

// ============================================================================
// Input and output
// ============================================================================

// format returns the output format for this invocation.
func (rt *Runtime) format(c *cli.Context) (output.Format, bool) {
	cfg := rt.config()
	name, wide := cfg.Output.Format, cfg.Output.Wide
	if c.IsSet("output") {
		name = c.String("output")
	}
	if c.IsSet("wide") {
		wide = c.Bool("wide")
	}
	f, err := output.ParseFormat(name)
	if err != nil {
		f = output.FormatTable
	}
	return f, wide
}

// print writes data in the selected format.
func (rt *Runtime) print(c *cli.Context, data any) error {
	f, wide := rt.format(c)
	return output.NewFormatter(f, wide).Format(rt.out, data)
}

// structured reports whether output is json or yaml, in which case
// human-oriented messages are suppressed.
func (rt *Runtime) structured(c *cli.Context) bool {
	f, _ := rt.format(c)
	return f.IsStructured()
}

// say prints a human-oriented line unless output is structured.
func (rt *Runtime) say(c *cli.Context, format string, args ...any) {
	if rt.structured(c) {
		return
	}
	fmt.Fprintf(rt.out, format+"\n", args...)
}

// prompt reads one line after printing label to stderr.
func (rt *Runtime) prompt(label string) (string, error) {
	fmt.Fprint(rt.errOut, label)
	line, err := rt.lines.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", domain.ErrMissingArgument.WithDetails(strings.TrimSuffix(strings.TrimSpace(label), ":"))
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads a secret without echo when stdin is a terminal.
func (rt *Runtime) readPassword(label string) (string, error) {
	if rt.password != nil {
		return rt.password(label)
	}
	if f, ok := rt.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(rt.errOut, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(rt.errOut)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return rt.prompt(label)
}

// stringOrPrompt returns the flag value, prompting when it is empty.
func (rt *Runtime) stringOrPrompt(c *cli.Context, flag, label string) (string, error) {
	if v := strings.TrimSpace(c.String(flag)); v != "" {
		return v, nil
	}
	return rt.prompt(label)
}

// confirm asks a yes/no question; anything but y or yes is no.
func (rt *Runtime) confirm(question string) bool {
	answer, err := rt.prompt(question + " [y/N]: ")
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// parseID parses a positional numeric ID.
func parseID(c *cli.Context, what string) (int64, error) {
	arg := c.Args().First()
	if arg == "" {
		return 0, domain.ErrMissingArgument.WithDetails(what + " ID required")
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("invalid %s ID %q", what, arg))
	}
	return id, nil
}
