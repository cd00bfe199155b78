package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/models"
	"github.com/dmitrijs2005/storefront/internal/repositories/kv"
	"github.com/dmitrijs2005/storefront/internal/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []*models.AdminRow {
	return []*models.AdminRow{
		{Email: "Anna@shop.com", DisplayName: "anna", Role: models.RoleAdmin, Status: models.StatusActive},
		{Email: "bob@shop.com", DisplayName: "bob", Role: models.RoleCustomer, Status: models.StatusInactive},
		{Email: "dana@mail.com", DisplayName: "dana", Role: models.RoleAdmin, Status: models.StatusInactive},
		{Email: "eve@mail.com", DisplayName: "eve", Role: models.RoleCustomer, Status: models.StatusActive},
	}
}

func emails(rows []*models.AdminRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Email)
	}
	return out
}

func TestAdmin_LoadUsers_DefaultsStatus(t *testing.T) {
	store := users.NewStore(kv.NewMemoryRepository())
	ctx := context.Background()
	require.NoError(t, store.SaveAll(ctx, []models.User{admin(), customer()}))

	rows, err := NewAdminService(store).LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.AdminRow{
		Email: "a@x.com", DisplayName: "ada", Role: models.RoleAdmin, Status: models.StatusActive,
	}, *rows[0])
	assert.Equal(t, models.StatusActive, rows[1].Status)
}

func TestAdmin_FilterUsers(t *testing.T) {
	svc := NewAdminService(nil)
	rows := sampleRows()

	tests := []struct {
		name   string
		filter models.AdminFilter
		want   []string
	}{
		{"empty filter keeps all in order", models.AdminFilter{}, emails(rows)},
		{"email is case-insensitive substring", models.AdminFilter{Email: "  SHOP "}, []string{"Anna@shop.com", "bob@shop.com"}},
		{"role exact", models.AdminFilter{Role: models.RoleAdmin}, []string{"Anna@shop.com", "dana@mail.com"}},
		{"status exact", models.AdminFilter{Status: models.StatusInactive}, []string{"bob@shop.com", "dana@mail.com"}},
		{"conjunction", models.AdminFilter{Email: "a", Role: models.RoleAdmin}, []string{"Anna@shop.com", "dana@mail.com"}},
		{"all three", models.AdminFilter{Email: "mail", Role: models.RoleAdmin, Status: models.StatusActive}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.FilterUsers(rows, tt.filter)
			assert.Equal(t, tt.want, emails(got))
		})
	}
}

func TestAdmin_FilterUsers_SharesRows(t *testing.T) {
	rows := sampleRows()
	got := NewAdminService(nil).FilterUsers(rows, models.AdminFilter{Email: "eve"})
	require.Len(t, got, 1)
	assert.Same(t, rows[3], got[0])
}

func TestAdmin_ToggleStatus_PairsBack(t *testing.T) {
	store := users.NewStore(kv.NewMemoryRepository())
	ctx := context.Background()
	require.NoError(t, store.SaveAll(ctx, []models.User{customer()}))
	svc := NewAdminService(store)

	rows, err := svc.LoadUsers(ctx)
	require.NoError(t, err)
	row := rows[0]

	ok, err := svc.ToggleStatus(ctx, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.StatusInactive, row.Status)

	stored, err := store.FindByEmail(ctx, "c@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusInactive, stored.Status)

	ok, err = svc.ToggleStatus(ctx, row)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.StatusActive, row.Status)

	stored, err = store.FindByEmail(ctx, "c@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, stored.Status)
}

func TestAdmin_ToggleStatus_UnknownLeavesRow(t *testing.T) {
	svc := NewAdminService(users.NewStore(kv.NewMemoryRepository()))
	row := &models.AdminRow{Email: "ghost@x.com", Status: models.StatusActive}

	ok, err := svc.ToggleStatus(context.Background(), row)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, models.StatusActive, row.Status)
}

func TestAdmin_ToggleStatus_StorageError(t *testing.T) {
	svc := NewAdminService(users.NewStore(failingRepo{Err: errStorage}))
	row := &models.AdminRow{Email: "a@x.com", Status: models.StatusInactive}

	ok, err := svc.ToggleStatus(context.Background(), row)
	require.ErrorIs(t, err, errStorage)
	assert.False(t, ok)
	assert.Equal(t, models.StatusInactive, row.Status)
}
