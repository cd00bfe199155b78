package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/models"
)

// getSimpleText, getTextWithDefault and getPassword are indirections used
// to facilitate testing.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getPassword        = GetPassword
)

// Init seeds an empty store from the snapshot source and restores the
// persisted session.
func (a *App) Init(ctx context.Context) error {
	if err := a.session.Initialize(ctx); err != nil {
		return err
	}
	if u := a.currentUser(); u != nil {
		fmt.Fprintf(a.out, "Welcome back, %s\n", displayName(*u))
	}
	return nil
}

// Login prompts for credentials. A rejected login is reported to the user
// and is not an error of the command.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.session.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) || errors.Is(err, common.ErrUnexpected) {
			fmt.Fprintln(a.out, "Login failed:", err)
			return nil
		}
		return err
	}
	fmt.Fprintf(a.out, "Hello, %s\n", displayName(u))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI prints the session user without the password.
func (a *App) WhoAmI(ctx context.Context) error {
	u := a.currentUser()
	if u == nil {
		return common.ErrNotAuthenticated
	}
	fmt.Fprintf(a.out, "Email:        %s\n", u.Email)
	fmt.Fprintf(a.out, "Full name:    %s\n", u.FullName)
	fmt.Fprintf(a.out, "Display name: %s\n", u.DisplayName)
	fmt.Fprintf(a.out, "Birth date:   %s\n", u.BirthDate)
	fmt.Fprintf(a.out, "Address:      %s\n", u.Address)
	fmt.Fprintf(a.out, "Role:         %s\n", u.Role)
	fmt.Fprintf(a.out, "Status:       %s\n", u.EffectiveStatus())
	return nil
}

// Register prompts for a new customer account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	var u models.User
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Full name", &u.FullName},
		{"Display name", &u.DisplayName},
		{"Email", &u.Email},
		{"Birth date (YYYY-MM-DD)", &u.BirthDate},
		{"Address", &u.Address},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	if u.Email == "" {
		fmt.Fprintln(a.out, "Email is required")
		return nil
	}

	password, err := a.newPassword()
	if err != nil || password == "" {
		return err
	}
	u.Password = password
	u.Role = models.RoleCustomer
	u.Status = models.StatusActive

	ok, err := a.accounts.Register(ctx, u)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "An account with this email already exists")
		return nil
	}
	fmt.Fprintln(a.out, "Account created, you can log in now")
	return nil
}

// newPassword asks for a password twice. It returns "" with a message to
// the user when they differ or are empty.
func (a *App) newPassword() (string, error) {
	first, err := getPassword("New password", a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(first)
	second, err := getPassword("Repeat password", a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(second)

	if len(first) == 0 {
		fmt.Fprintln(a.out, "Password must not be empty")
		return "", nil
	}
	if string(first) != string(second) {
		fmt.Fprintln(a.out, "Passwords do not match")
		return "", nil
	}
	return string(first), nil
}

func displayName(u models.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}
