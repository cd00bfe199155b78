package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/models"
	"github.com/dmitrijs2005/storefront/internal/repositories/users"
)

// AdminService is the read/filter/toggle view behind the management screen.
// The only stored field it ever changes is the status.
type AdminService struct {
	store *users.Store
}

func NewAdminService(store *users.Store) *AdminService {
	return &AdminService{store: store}
}

// LoadUsers projects every stored user to an AdminRow, in stored order.
func (s *AdminService) LoadUsers(ctx context.Context) ([]*models.AdminRow, error) {
	list, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]*models.AdminRow, 0, len(list))
	for _, u := range list {
		r := models.ToAdminRow(u)
		rows = append(rows, &r)
	}
	return rows, nil
}

// FilterUsers keeps the rows matching every non-empty criterion, preserving
// order. The returned slice shares its rows with the input.
func (s *AdminService) FilterUsers(rows []*models.AdminRow, f models.AdminFilter) []*models.AdminRow {
	email := strings.ToLower(strings.TrimSpace(f.Email))

	out := make([]*models.AdminRow, 0, len(rows))
	for _, r := range rows {
		if email != "" && !strings.Contains(strings.ToLower(r.Email), email) {
			continue
		}
		if f.Role != "" && r.Role != f.Role {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ToggleStatus flips the stored status of row.Email. On success row itself
// is updated so holders of the pointer see the new status; on failure row
// is left untouched.
func (s *AdminService) ToggleStatus(ctx context.Context, row *models.AdminRow) (bool, error) {
	next := row.Status.Opposite()
	ok, err := s.store.SetStatus(ctx, row.Email, next)
	if err != nil || !ok {
		return false, err
	}
	row.Status = next
	return true, nil
}
