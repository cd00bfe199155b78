package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
)

// Profile edits the session user's profile. Empty answers keep the
// current value; the email cannot be changed.
func (a *App) Profile(ctx context.Context) error {
	cur := a.currentUser()
	if cur == nil {
		return common.ErrNotAuthenticated
	}

	// edit the stored record, not the session copy, so the password goes
	// back in its stored form
	stored, err := a.accounts.FindByEmail(ctx, cur.Email)
	if err != nil {
		return err
	}
	if stored == nil {
		fmt.Fprintln(a.out, "Account not found")
		return nil
	}
	u := *stored
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Full name", &u.FullName},
		{"Display name", &u.DisplayName},
		{"Birth date (YYYY-MM-DD)", &u.BirthDate},
		{"Address", &u.Address},
	}
	for _, f := range fields {
		v, err := getTextWithDefault(a.reader, f.prompt, *f.dst, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	ok, err := a.accounts.UpdateProfile(ctx, u)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Account not found")
		return nil
	}
	fmt.Fprintln(a.out, "Profile updated")
	return nil
}

// Passwd changes the session user's password after checking the current
// one.
func (a *App) Passwd(ctx context.Context) error {
	cur := a.currentUser()
	if cur == nil {
		return common.ErrNotAuthenticated
	}

	old, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(old)

	valid, err := a.accounts.ValidateCurrentPassword(ctx, cur.Email, string(old))
	if err != nil {
		return err
	}
	if !valid {
		fmt.Fprintln(a.out, "Current password is incorrect")
		return nil
	}

	password, err := a.newPassword()
	if err != nil || password == "" {
		return err
	}
	ok, err := a.accounts.ChangePassword(ctx, cur.Email, password)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Account not found")
		return nil
	}
	fmt.Fprintln(a.out, "Password changed")
	return nil
}

// Unregister removes the session user's account after confirmation.
func (a *App) Unregister(ctx context.Context) error {
	cur := a.currentUser()
	if cur == nil {
		return common.ErrNotAuthenticated
	}

	if !a.confirm(fmt.Sprintf("Delete account %s? Type 'yes' to confirm", cur.Email)) {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}
	ok, err := a.accounts.RemoveAccount(ctx, cur.Email)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Account not found")
		return nil
	}
	fmt.Fprintln(a.out, "Account removed")
	return nil
}

func (a *App) confirm(prompt string) bool {
	answer, err := getSimpleText(a.reader, prompt, a.out)
	return err == nil && strings.EqualFold(answer, "yes")
}
