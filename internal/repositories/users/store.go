// Package users owns the persisted user collection.
//
// The whole collection lives under a single key of a kv.Repository as a JSON
// array. Every mutating call is one read-modify-write of that array: read
// all, change in memory, write all back. No other package touches the key.
//
// Expected business outcomes (duplicate email, unknown email, bad
// credentials) are reported through the bool/nil results. The error result
// only carries storage or decoding failures.
package users

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/cryptox"
	"github.com/dmitrijs2005/storefront/internal/models"
	"github.com/dmitrijs2005/storefront/internal/repositories/kv"
)

// DefaultKey is the storage key of the user collection.
const DefaultKey = "users"

// Store is the durable user collection.
type Store struct {
	repo   kv.Repository
	key    string
	hasher cryptox.Hasher
	probe  func() bool

	// serializes read-modify-write cycles within this process only
	mu sync.Mutex
}

type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithHasher sets the password policy. The default stores clear text.
func WithHasher(h cryptox.Hasher) Option {
	return func(s *Store) { s.hasher = h }
}

// WithProbe installs the "is durable storage available" check. While it
// reports false, reads are empty and writes are dropped.
func WithProbe(probe func() bool) Option {
	return func(s *Store) { s.probe = probe }
}

func NewStore(repo kv.Repository, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		key:    DefaultKey,
		hasher: cryptox.PlainHasher{},
		probe:  func() bool { return true },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) load(ctx context.Context) ([]models.User, error) {
	if !s.probe() {
		return []models.User{}, nil
	}
	raw, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	list := []models.User{}
	if len(raw) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	if list == nil {
		list = []models.User{}
	}
	return list, nil
}

func (s *Store) save(ctx context.Context, list []models.User) error {
	if !s.probe() {
		return nil
	}
	if list == nil {
		list = []models.User{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.repo.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

// mutate runs one read-modify-write cycle. fn reports whether it changed
// the list; the list is written back only then.
func (s *Store) mutate(ctx context.Context, fn func(list []models.User) ([]models.User, bool, error)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	list, changed, err := fn(list)
	if err != nil || !changed {
		return false, err
	}
	if err := s.save(ctx, list); err != nil {
		return false, err
	}
	return true, nil
}

func indexOf(list []models.User, email string) int {
	for i := range list {
		if list[i].Email == email {
			return i
		}
	}
	return -1
}

// ListAll returns the whole collection in stored order. An absent key or
// unavailable storage yields an empty slice.
func (s *Store) ListAll(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// SaveAll replaces the collection with list in a single write. It does not
// validate anything.
func (s *Store) SaveAll(ctx context.Context, list []models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, list)
}

// Seed is SaveAll after running every password through the hasher. It is
// used to import a remote snapshot that carries clear-text passwords.
func (s *Store) Seed(ctx context.Context, list []models.User) error {
	seeded := make([]models.User, len(list))
	for i, u := range list {
		hashed, err := s.hasher.Hash(u.Password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.Email, err)
		}
		u.Password = hashed
		seeded[i] = u
	}
	return s.SaveAll(ctx, seeded)
}

func (s *Store) HasAny(ctx context.Context) (bool, error) {
	list, err := s.ListAll(ctx)
	if err != nil {
		return false, err
	}
	return len(list) > 0, nil
}

// Register appends u unless its email is already present.
func (s *Store) Register(ctx context.Context, u models.User) (bool, error) {
	return s.mutate(ctx, func(list []models.User) ([]models.User, bool, error) {
		if indexOf(list, u.Email) >= 0 {
			return list, false, nil
		}
		hashed, err := s.hasher.Hash(u.Password)
		if err != nil {
			return list, false, fmt.Errorf("hash password: %w", err)
		}
		u.Password = hashed
		return append(list, u), true, nil
	})
}

// Authenticate returns the first user whose email equals email and whose
// stored password verifies against password, or nil. No trimming or case
// folding is done here.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	list, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Email == email && s.hasher.Verify(list[i].Password, password) {
			u := list[i]
			return &u, nil
		}
	}
	return nil, nil
}

// FindByEmail returns the user with email, or nil.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	list, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(list, email); i >= 0 {
		u := list[i]
		return &u, nil
	}
	return nil, nil
}

// VerifyPassword reports whether password matches the stored password of
// email. An unknown email never matches.
func (s *Store) VerifyPassword(ctx context.Context, email, password string) (bool, error) {
	u, err := s.FindByEmail(ctx, email)
	if err != nil || u == nil {
		return false, err
	}
	return s.hasher.Verify(u.Password, password), nil
}

// Update replaces the stored record whose email equals u.Email with u.
// A record is looked up by email only, so a payload carrying an unknown
// email changes nothing and reports false.
func (s *Store) Update(ctx context.Context, u models.User) (bool, error) {
	stored, err := s.Replace(ctx, u)
	return stored != nil, err
}

// Replace is Update returning the record as written, with the password in
// its stored form. It returns nil when no record has u's email.
func (s *Store) Replace(ctx context.Context, u models.User) (*models.User, error) {
	var stored *models.User
	_, err := s.mutate(ctx, func(list []models.User) ([]models.User, bool, error) {
		i := indexOf(list, u.Email)
		if i < 0 {
			return list, false, nil
		}
		// an unchanged password is already in stored form
		if u.Password != list[i].Password {
			hashed, err := s.hasher.Hash(u.Password)
			if err != nil {
				return list, false, fmt.Errorf("hash password: %w", err)
			}
			u.Password = hashed
		}
		u.Email = list[i].Email
		list[i] = u
		stored = &u
		return list, true, nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// SetPassword overwrites the password of email.
func (s *Store) SetPassword(ctx context.Context, email, password string) (bool, error) {
	return s.mutate(ctx, func(list []models.User) ([]models.User, bool, error) {
		i := indexOf(list, email)
		if i < 0 {
			return list, false, nil
		}
		hashed, err := s.hasher.Hash(password)
		if err != nil {
			return list, false, fmt.Errorf("hash password: %w", err)
		}
		list[i].Password = hashed
		return list, true, nil
	})
}

// SetStatus overwrites the status of email.
func (s *Store) SetStatus(ctx context.Context, email string, status models.Status) (bool, error) {
	return s.mutate(ctx, func(list []models.User) ([]models.User, bool, error) {
		i := indexOf(list, email)
		if i < 0 {
			return list, false, nil
		}
		list[i].Status = status
		return list, true, nil
	})
}

// Remove drops every record with email and reports whether any was removed.
// Nothing is written when no record matched.
func (s *Store) Remove(ctx context.Context, email string) (bool, error) {
	return s.mutate(ctx, func(list []models.User) ([]models.User, bool, error) {
		kept := make([]models.User, 0, len(list))
		for _, u := range list {
			if u.Email != email {
				kept = append(kept, u)
			}
		}
		return kept, len(kept) != len(list), nil
	})
}
