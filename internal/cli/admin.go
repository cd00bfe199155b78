package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/storefront/internal/models"
)

// Users lists accounts, optionally filtered with email=, role= and
// status= arguments.
func (a *App) Users(ctx context.Context, args []string) error {
	crit, err := parseFilter(args)
	if err != nil {
		return err
	}
	filter := models.AdminFilter{
		Email:  crit["email"],
		Role:   models.Role(crit["role"]),
		Status: models.Status(crit["status"]),
	}

	rows, err := a.admin.LoadUsers(ctx)
	if err != nil {
		return err
	}
	a.rows = rows

	shown := a.admin.FilterUsers(rows, filter)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tNAME\tROLE\tSTATUS")
	for _, r := range shown {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Email, r.DisplayName, r.Role, r.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d of %d users\n", len(shown), len(rows))
	return nil
}

// Toggle flips the status of one account between active and inactive.
func (a *App) Toggle(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: toggle <email>")
		return nil
	}
	email := args[0]

	row := a.findRow(email)
	if row == nil {
		rows, err := a.admin.LoadUsers(ctx)
		if err != nil {
			return err
		}
		a.rows = rows
		row = a.findRow(email)
	}
	if row == nil {
		fmt.Fprintln(a.out, "No such user:", email)
		return nil
	}

	ok, err := a.admin.ToggleStatus(ctx, row)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "No such user:", email)
		return nil
	}
	fmt.Fprintf(a.out, "%s is now %s\n", row.Email, row.Status)
	return nil
}

func (a *App) findRow(email string) *models.AdminRow {
	for _, r := range a.rows {
		if r.Email == email {
			return r
		}
	}
	return nil
}
