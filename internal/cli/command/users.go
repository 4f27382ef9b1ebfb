package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/rentdash-go/internal/core/domain"
)

// UsersCommand returns the users subcommand group.
func UsersCommand() *cli.Command {
	return &cli.Command{
		Name:    "users",
		Aliases: []string{"user"},
		Usage:   "Manage dashboard users",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List users",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Filter by name or email",
					},
				},
				Action: usersList,
			},
			{
				Name:      "get",
				Usage:     "Show one user",
				ArgsUsage: "USER_ID",
				Action:    usersGet,
			},
			{
				Name:  "add",
				Usage: "Create a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Full name"},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email"},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Initial password (prompted when omitted)"},
				},
				Action: usersAdd,
			},
			{
				Name:      "update",
				Aliases:   []string{"edit"},
				Usage:     "Update a user; only the given fields are sent",
				ArgsUsage: "USER_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "interactive",
						Aliases: []string{"i"},
						Usage:   "Load the user and prompt for each field; blank keeps the current value",
					},
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "New name"},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "New email"},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "New password"},
				},
				Action: usersUpdate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a user",
				ArgsUsage: "USER_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: usersDelete,
			},
		},
	}
}

func usersList(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	if _, err := rt.requireUser(c.Context); err != nil {
		return err
	}

	if err := rt.users.FetchUsers(c.Context); err != nil {
		return rt.directoryFailure(c.Context, err)
	}

	users := rt.users.Snapshot().Filter(c.String("search"))
	if err := rt.print(c, users); err != nil {
		return err
	}
	rt.say(c, "\nTotal: %d users", len(users))
	return nil
}

func usersGet(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "user")
	if err != nil {
		return err
	}
	if _, err := rt.requireUser(c.Context); err != nil {
		return err
	}

	if err := rt.users.FetchUserByID(c.Context, id); err != nil {
		return rt.directoryFailure(c.Context, err)
	}
	defer rt.users.ClearSelectedUser()

	return rt.print(c, rt.users.Snapshot().Selected)
}

func usersAdd(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	if _, err := rt.requireUser(c.Context); err != nil {
		return err
	}

	in, err := readUserInput(c, rt)
	if err != nil {
		return err
	}

	user, err := rt.users.AddUser(c.Context, in)
	if err != nil {
		return rt.directoryFailure(c.Context, err)
	}

	rt.say(c, "User %d created.", user.ID)
	return rt.print(c, user)
}

func usersUpdate(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "user")
	if err != nil {
		return err
	}

	var patch domain.UserPatch
	if c.Bool("interactive") {
		if _, err := rt.requireUser(c.Context); err != nil {
			return err
		}
		if patch, err = editUser(c, rt, id); err != nil {
			return err
		}
	}
	for flag, field := range map[string]**string{
		"name":     &patch.Name,
		"email":    &patch.Email,
		"password": &patch.Password,
	} {
		if c.IsSet(flag) {
			v := c.String(flag)
			*field = &v
		}
	}
	if err := patch.Writable().Validate(); err != nil {
		return err
	}

	if _, err := rt.requireUser(c.Context); err != nil {
		return err
	}

	user, err := rt.users.UpdateUserData(c.Context, id, patch)
	if err != nil {
		return rt.directoryFailure(c.Context, err)
	}

	rt.say(c, "User %d updated.", user.ID)
	return rt.print(c, user)
}

// editUser loads the record and prompts for each field with the current
// value as the default. The whole record goes into the patch; the server
// owned fields are dropped before sending.
func editUser(c *cli.Context, rt *Runtime, id int64) (domain.UserPatch, error) {
	if err := rt.users.FetchUserByID(c.Context, id); err != nil {
		return domain.UserPatch{}, rt.directoryFailure(c.Context, err)
	}
	current := rt.users.Snapshot().Selected
	rt.users.ClearSelectedUser()
	if current == nil {
		return domain.UserPatch{}, domain.ErrUserNotFound
	}

	patch := domain.PatchFromUser(*current)
	for _, f := range []struct {
		label string
		field **string
	}{
		{"Name", &patch.Name},
		{"Email", &patch.Email},
	} {
		v, err := rt.prompt(fmt.Sprintf("%s [%s]: ", f.label, **f.field))
		if err != nil {
			return domain.UserPatch{}, err
		}
		if v != "" {
			*f.field = &v
		}
	}

	pw, err := rt.readPassword("New password (blank to keep): ")
	if err != nil {
		return domain.UserPatch{}, err
	}
	if pw != "" {
		patch.Password = &pw
	}
	return patch, nil
}

func usersDelete(c *cli.Context) error {
	rt, err := runtimeFrom(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "user")
	if err != nil {
		return err
	}
	if _, err := rt.requireUser(c.Context); err != nil {
		return err
	}

	if !c.Bool("force") && !rt.confirm("Delete user "+c.Args().First()+"?") {
		rt.say(c, "Cancelled.")
		return nil
	}

	if err := rt.users.RemoveUser(c.Context, id); err != nil {
		return rt.directoryFailure(c.Context, err)
	}

	rt.say(c, "User %d deleted.", id)
	return nil
}
