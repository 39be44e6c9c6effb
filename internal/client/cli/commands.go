package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/contactbook/internal/client/client"
	"github.com/dmitrijs2005/contactbook/internal/rpc"
)

var ErrUsage = errors.New("usage")

type command struct {
	usage string
	run   func(a *App, ctx context.Context, args []string) error
}

const (
	usageConfirm  = "confirm <token>"
	usageResend   = "resend <email>"
	usageAvatar   = "avatar <image file>"
	usageContacts = "contacts list|find|get|add|edit|rm ..."
	usageFind     = "contacts find <query> [skip] [limit]"
	usageGet      = "contacts get <id>"
	usageAdd      = "contacts add <name> <surname> <email> <phone> [birthday] [note...]"
	usageEdit     = "contacts edit <id> field=value..."
	usageRemove   = "contacts rm <id>"
)

var commands = map[string]command{
	"ping":      {"ping", (*App).ping},
	"signup":    {"signup [email] [username]", (*App).signup},
	"login":     {"login [email]", (*App).login},
	"refresh":   {"refresh [refresh-token]", (*App).refresh},
	"confirm":   {usageConfirm, (*App).confirm},
	"resend":    {usageResend, (*App).resend},
	"me":        {"me", (*App).me},
	"avatar":    {usageAvatar, (*App).avatar},
	"contacts":  {usageContacts, (*App).contacts},
	"birthdays": {"birthdays [days]", (*App).birthdays},
	"logout":    {"logout", (*App).logout},
}

var contactCommands = map[string]command{
	"list": {"contacts list [skip] [limit]", (*App).listContacts},
	"find": {usageFind, (*App).findContacts},
	"get":  {usageGet, (*App).getContact},
	"add":  {usageAdd, (*App).addContact},
	"edit": {usageEdit, (*App).editContact},
	"rm":   {usageRemove, (*App).deleteContact},
}

func usageError(usage string) error {
	return fmt.Errorf("%w: %s", ErrUsage, usage)
}

// Execute runs one command. args[0] is the command name.
func (a *App) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("<command> [args]")
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command: %s", args[0])
	}
	return cmd.run(a, ctx, args[1:])
}

func intArg(args []string, i, def int) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", args[i])
	}
	return n, nil
}

func idArg(args []string, usage string) (int64, error) {
	if len(args) < 1 {
		return 0, usageError(usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a contact id", args[0])
	}
	return id, nil
}

// argOrPrompt returns args[i], asking for it when absent.
func (a *App) argOrPrompt(args []string, i int, prompt string) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) ping(ctx context.Context, _ []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.Ping(ctx); err != nil {
		return err
	}
	return a.print(map[string]string{"status": "ok"})
}

func (a *App) signup(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, 0, "Email")
	if err != nil {
		return err
	}
	username, err := a.argOrPrompt(args, 1, "Username")
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	user, err := a.client.Signup(ctx, email, username, password)
	if err != nil {
		return err
	}
	return a.print(user)
}

func (a *App) login(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, 0, "Email")
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	tokens, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return a.print(tokens)
}

func (a *App) refresh(ctx context.Context, args []string) error {
	if len(args) > 0 {
		t := a.client.Tokens()
		t.RefreshToken = args[0]
		a.client.SetTokens(t)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	tokens, err := a.client.Refresh(ctx)
	if err != nil {
		return err
	}
	return a.print(tokens)
}

func (a *App) confirm(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usageError(usageConfirm)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	msg, err := a.client.ConfirmEmail(ctx, args[0])
	if err != nil {
		return err
	}
	return a.print(rpc.MessageResponse{Message: msg})
}

func (a *App) resend(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usageError(usageResend)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	msg, err := a.client.RequestConfirmation(ctx, args[0])
	if err != nil {
		return err
	}
	return a.print(rpc.MessageResponse{Message: msg})
}

func (a *App) me(ctx context.Context, _ []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	user, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	return a.print(user)
}

func (a *App) avatar(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usageError(usageAvatar)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	user, err := a.client.UpdateAvatar(ctx, filepath.Base(args[0]), http.DetectContentType(data), data)
	if err != nil {
		return err
	}
	return a.print(user)
}

func (a *App) logout(_ context.Context, _ []string) error {
	a.client.SetTokens(client.Tokens{})
	return a.print(rpc.MessageResponse{Message: "Logged out"})
}

func (a *App) contacts(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError(usageContacts)
	}
	cmd, ok := contactCommands[args[0]]
	if !ok {
		return usageError(usageContacts)
	}
	return cmd.run(a, ctx, args[1:])
}

func (a *App) listContacts(ctx context.Context, args []string) error {
	skip, err := intArg(args, 0, 0)
	if err != nil {
		return err
	}
	limit, err := intArg(args, 1, 0)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	list, err := a.client.ListContacts(ctx, skip, limit)
	if err != nil {
		return err
	}
	return a.print(list)
}

func (a *App) findContacts(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usageError(usageFind)
	}
	skip, err := intArg(args, 1, 0)
	if err != nil {
		return err
	}
	limit, err := intArg(args, 2, 0)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	list, err := a.client.FilterContacts(ctx, args[0], skip, limit)
	if err != nil {
		return err
	}
	return a.print(list)
}

func (a *App) getContact(ctx context.Context, args []string) error {
	id, err := idArg(args, usageGet)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	c, err := a.client.GetContact(ctx, id)
	if err != nil {
		return err
	}
	return a.print(c)
}

func (a *App) addContact(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return usageError(usageAdd)
	}
	req := &rpc.CreateContactRequest{Name: args[0], Surname: args[1], Email: args[2], Phone: args[3]}
	if len(args) > 4 {
		req.Birthday = rpc.Date(args[4])
	}
	if len(args) > 5 {
		req.Note = strings.Join(args[5:], " ")
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	c, err := a.client.CreateContact(ctx, req)
	if err != nil {
		return err
	}
	return a.print(c)
}

// editRequest builds a partial update from field=value pairs. An empty
// birthday clears it.
func editRequest(id int64, pairs []string) (*rpc.UpdateContactRequest, error) {
	req := &rpc.UpdateContactRequest{ID: id}
	for _, p := range pairs {
		field, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("%q is not field=value", p)
		}
		v := value
		switch field {
		case "name":
			req.Name = &v
		case "surname":
			req.Surname = &v
		case "email":
			req.Email = &v
		case "phone":
			req.Phone = &v
		case "note":
			req.Note = &v
		case "birthday":
			if v == "" {
				req.ClearBirthday = true
			} else {
				d := rpc.Date(v)
				req.Birthday = &d
			}
		default:
			return nil, fmt.Errorf("unknown field %q", field)
		}
	}
	return req, nil
}

func (a *App) editContact(ctx context.Context, args []string) error {
	usage := usageEdit
	id, err := idArg(args, usage)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return usageError(usage)
	}
	req, err := editRequest(id, args[1:])
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	c, err := a.client.UpdateContact(ctx, req)
	if err != nil {
		return err
	}
	return a.print(c)
}

func (a *App) deleteContact(ctx context.Context, args []string) error {
	id, err := idArg(args, usageRemove)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.DeleteContact(ctx, id); err != nil {
		return err
	}
	return a.print(map[string]int64{"deleted": id})
}

func (a *App) birthdays(ctx context.Context, args []string) error {
	days, err := intArg(args, 0, 0)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	list, err := a.client.UpcomingBirthdays(ctx, days)
	if err != nil {
		return err
	}
	return a.print(list)
}
