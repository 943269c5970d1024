// Package admincli implements the operator commands used to bootstrap
// accounts and manage role assignments directly against the store.
package admincli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/usermanagement/internal/server/models"
)

const usage = `usage: useradmin <command> [flags]

commands:
  create -u <username> -e <email> [-admin]   create an account (password is prompted)
  grant  -id <userId> -role admin|user       grant a role
  roles  -id <userId>                        list roles`

// ErrUsage is returned for unknown commands and bad flags.
var ErrUsage = errors.New("invalid usage")

type Store interface {
	CreateAccountWithRoles(ctx context.Context, username, email, passwordHash string, extra ...models.RoleName) (*models.Account, error)
	AssignRole(ctx context.Context, id int64, role models.RoleName) error
	RolesOf(ctx context.Context, id int64) ([]models.RoleName, error)
}

type Hasher interface {
	Hash(plaintext string) (string, error)
}

type App struct {
	store  Store
	hasher Hasher
	in     *bufio.Reader
	out    io.Writer
}

func NewApp(store Store, hasher Hasher, in io.Reader, out io.Writer) *App {
	return &App{store: store, hasher: hasher, in: bufio.NewReader(in), out: out}
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usageError("no command given")
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "create":
		return a.create(ctx, rest)
	case "grant":
		return a.grant(ctx, rest)
	case "roles":
		return a.roles(ctx, rest)
	case "help", "-h", "-help", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	default:
		return a.usageError("unknown command " + cmd)
	}
}

func (a *App) create(ctx context.Context, args []string) error {
	fs := a.flagSet("create")
	username := fs.String("u", "", "username")
	email := fs.String("e", "", "email")
	admin := fs.Bool("admin", false, "also grant the admin role")
	if err := fs.Parse(args); err != nil {
		return a.usageError(err.Error())
	}
	if strings.TrimSpace(*username) == "" || strings.TrimSpace(*email) == "" {
		return a.usageError("create needs -u and -e")
	}

	password, err := GetNewPassword(a.in, a.out)
	if err != nil {
		return err
	}

	hash, err := a.hasher.Hash(password)
	if err != nil {
		return err
	}

	var extra []models.RoleName
	if *admin {
		extra = append(extra, models.RoleAdmin)
	}

	account, err := a.store.CreateAccountWithRoles(ctx, *username, *email, hash, extra...)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created user %d (%s)\n", account.ID, account.Username)
	for _, role := range extra {
		fmt.Fprintf(a.out, "granted %s to user %d\n", role, account.ID)
	}

	return nil
}

func (a *App) grant(ctx context.Context, args []string) error {
	fs := a.flagSet("grant")
	id := fs.Int64("id", 0, "user id")
	roleName := fs.String("role", "", "role name (admin or user)")
	if err := fs.Parse(args); err != nil {
		return a.usageError(err.Error())
	}
	if *id <= 0 {
		return a.usageError("grant needs a positive -id")
	}
	role, ok := models.ParseRoleName(*roleName)
	if !ok {
		return a.usageError(fmt.Sprintf("unknown role %q", *roleName))
	}

	if err := a.store.AssignRole(ctx, *id, role); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "granted %s to user %d\n", role, *id)
	return nil
}

func (a *App) roles(ctx context.Context, args []string) error {
	fs := a.flagSet("roles")
	id := fs.Int64("id", 0, "user id")
	if err := fs.Parse(args); err != nil {
		return a.usageError(err.Error())
	}
	if *id <= 0 {
		return a.usageError("roles needs a positive -id")
	}

	roles, err := a.store.RolesOf(ctx, *id)
	if err != nil {
		return err
	}

	if len(roles) == 0 {
		fmt.Fprintln(a.out, "(none)")
		return nil
	}
	for _, r := range roles {
		fmt.Fprintln(a.out, r)
	}
	return nil
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (a *App) usageError(reason string) error {
	fmt.Fprintln(a.out, usage)
	return fmt.Errorf("%w: %s", ErrUsage, reason)
}
