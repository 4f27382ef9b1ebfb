package command

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdash-go/internal/core/domain"
)

// LoginCommand signs in.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in to the dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
				Usage:   "Account email (prompted when omitted)",
				EnvVars: []string{"RENTDASH_EMAIL"},
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password (prompted when omitted)",
				EnvVars: []string{"RENTDASH_PASSWORD"},
			},
		},
		Action: loginAction,
	}
}

// RegisterCommand creates an account and signs in with it.
func RegisterCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account and sign in",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Full name (prompted when omitted)",
			},
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
				Usage:   "Account email (prompted when omitted)",
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password (prompted twice when omitted)",
			},
		},
		Action: registerAction,
	}
}

// LogoutCommand signs out.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Sign out",
		Action: logoutAction,
	}
}

// WhoamiCommand shows the signed-in user.
func WhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the signed-in user",
		Action: whoamiAction,
	}
}

func loginAction(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	if err := rt.connect(c.Context); err != nil {
		return err
	}

	email, err := rt.stringOrPrompt(c, "email", "Email: ")
	if err != nil {
		return err
	}
	password := c.String("password")
	if password == "" {
		if password, err = rt.readPassword("Password: "); err != nil {
			return err
		}
	}

	if err := rt.gate.Login(c.Context, email, password); err != nil {
		return rt.sessionFailure(err)
	}
	rt.hydrated = true

	user := rt.gate.Snapshot().User
	if rt.structured(c) {
		return rt.print(c, user)
	}
	rt.say(c, "Signed in as %s <%s>", user.Name, user.Email)
	return nil
}

func registerAction(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	if err := rt.connect(c.Context); err != nil {
		return err
	}

	in, err := readUserInput(c, rt)
	if err != nil {
		return err
	}

	if err := rt.gate.Register(c.Context, in.Name, in.Email, in.Password); err != nil {
		if errors.Is(err, domain.ErrRegisteredNotSignedIn) {
			msg := rt.gate.Snapshot().LastError
			rt.gate.ClearError()
			return &displayError{msg: "Account created, but signing in failed: " + msg, err: err}
		}
		return rt.sessionFailure(err)
	}
	rt.hydrated = true

	user := rt.gate.Snapshot().User
	if rt.structured(c) {
		return rt.print(c, user)
	}
	rt.say(c, "Account created. Signed in as %s <%s>", user.Name, user.Email)
	return nil
}

// readUserInput collects name, email and password from flags or prompts
// and validates them like the registration form. A prompted password must
// be entered twice.
func readUserInput(c *cli.Context, rt *Runtime) (domain.UserInput, error) {
	var (
		in  domain.UserInput
		err error
	)
	if in.Name, err = rt.stringOrPrompt(c, "name", "Name: "); err != nil {
		return in, err
	}
	if in.Email, err = rt.stringOrPrompt(c, "email", "Email: "); err != nil {
		return in, err
	}

	in.Password = c.String("password")
	if in.Password == "" {
		if in.Password, err = rt.readPassword("Password: "); err != nil {
			return in, err
		}
		again, err := rt.readPassword("Confirm password: ")
		if err != nil {
			return in, err
		}
		if again != in.Password {
			return in, domain.ErrUserValidation.WithDetails("Passwords do not match")
		}
	}

	return in, in.Validate()
}

func logoutAction(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	if err := rt.connect(c.Context); err != nil {
		return err
	}

	if err := rt.gate.Logout(c.Context); err != nil {
		rt.log.Warn("logout request failed; local session cleared", "error", err)
	}
	rt.hydrated = true

	rt.say(c, "Signed out.")
	return nil
}

func whoamiAction(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	user, err := rt.requireUser(c.Context)
	if err != nil {
		return err
	}
	return rt.print(c, user)
}
