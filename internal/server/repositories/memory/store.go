// Package memory provides map-backed user and contact repositories for
// development and tests. A single mutex guards both so that the
// compare-and-swap on refresh tokens is atomic.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/google/uuid"
)

type Store struct {
	mu       sync.Mutex
	users    map[string]*models.User
	byEmail  map[string]string
	contacts map[int64]*models.Contact
	nextID   int64
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]*models.User),
		byEmail:  make(map[string]string),
		contacts: make(map[int64]*models.Contact),
		now:      time.Now,
	}
}

func (s *Store) Users() *UserRepository       { return &UserRepository{s: s} }
func (s *Store) Contacts() *ContactRepository { return &ContactRepository{s: s} }

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.Avatar != nil {
		a := *u.Avatar
		c.Avatar = &a
	}
	if u.RefreshToken != nil {
		r := *u.RefreshToken
		c.RefreshToken = &r
	}
	return &c
}

func cloneContact(c *models.Contact) models.Contact {
	out := *c
	if c.Birthday != nil {
		b := *c.Birthday
		out.Birthday = &b
	}
	return out
}

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.byEmail[user.Email]; ok {
		return nil, common.ErrEmailTaken
	}
	user.ID = uuid.NewString()
	user.CreatedAt = r.s.now().UTC()
	r.s.users[user.ID] = cloneUser(user)
	r.s.byEmail[user.Email] = user.ID
	return user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(r.s.users[id]), nil
}

func (r *UserRepository) SetRefreshToken(_ context.Context, userID string, digest *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	if digest == nil {
		u.RefreshToken = nil
	} else {
		d := *digest
		u.RefreshToken = &d
	}
	return nil
}

func (r *UserRepository) SwapRefreshToken(_ context.Context, userID, expected, next string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != expected {
		return false, nil
	}
	u.RefreshToken = &next
	return true, nil
}

func (r *UserRepository) MarkConfirmed(_ context.Context, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.byEmail[email]
	if !ok {
		return common.ErrorNotFound
	}
	r.s.users[id].Confirmed = true
	return nil
}

func (r *UserRepository) UpdateAvatar(_ context.Context, userID, url string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Avatar = &url
	return cloneUser(u), nil
}

type ContactRepository struct {
	s *Store
}

func (r *ContactRepository) emailTaken(owner, email string, except int64) bool {
	for id, c := range r.s.contacts {
		if id != except && c.UserID == owner && c.Email == email {
			return true
		}
	}
	return false
}

func (r *ContactRepository) Create(_ context.Context, owner string, in models.ContactInput) (*models.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(owner, in.Email, 0) {
		return nil, common.ErrDuplicateContactEmail
	}
	r.s.nextID++
	c := &models.Contact{
		ID:        r.s.nextID,
		UserID:    owner,
		Name:      in.Name,
		Surname:   in.Surname,
		Email:     in.Email,
		Phone:     in.Phone,
		Note:      in.Note,
		CreatedAt: r.s.now().UTC(),
	}
	if in.Birthday != nil {
		b := *in.Birthday
		c.Birthday = &b
	}
	r.s.contacts[c.ID] = c
	out := cloneContact(c)
	return &out, nil
}

func (r *ContactRepository) Get(_ context.Context, owner string, id int64) (*models.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.contacts[id]
	if !ok || c.UserID != owner {
		return nil, common.ErrorNotFound
	}
	out := cloneContact(c)
	return &out, nil
}

// collect returns matching contacts ordered by id. Callers hold the lock.
func (r *ContactRepository) collect(owner string, match func(*models.Contact) bool) []models.Contact {
	out := []models.Contact{}
	for _, c := range r.s.contacts {
		if c.UserID == owner && match(c) {
			out = append(out, cloneContact(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func page(items []models.Contact, skip, limit int) []models.Contact {
	if skip >= len(items) {
		return []models.Contact{}
	}
	items = items[skip:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (r *ContactRepository) List(_ context.Context, owner string, skip, limit int) ([]models.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	all := r.collect(owner, func(*models.Contact) bool { return true })
	return page(all, skip, limit), nil
}

func (r *ContactRepository) Filter(_ context.Context, owner, query string, skip, limit int) ([]models.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	q := strings.ToLower(query)
	all := r.collect(owner, func(c *models.Contact) bool {
		return strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Surname), q) ||
			strings.Contains(strings.ToLower(c.Email), q)
	})
	return page(all, skip, limit), nil
}

func (r *ContactRepository) Update(_ context.Context, owner string, id int64, patch models.ContactPatch) (*models.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.contacts[id]
	if !ok || c.UserID != owner {
		return nil, common.ErrorNotFound
	}
	updated := patch.Apply(cloneContact(c))
	if updated.Email != c.Email && r.emailTaken(owner, updated.Email, id) {
		return nil, common.ErrDuplicateContactEmail
	}
	r.s.contacts[id] = &updated
	out := cloneContact(&updated)
	return &out, nil
}

func (r *ContactRepository) Delete(_ context.Context, owner string, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.contacts[id]
	if !ok || c.UserID != owner {
		return common.ErrorNotFound
	}
	delete(r.s.contacts, id)
	return nil
}

func (r *ContactRepository) ListWithBirthdays(_ context.Context, owner string) ([]models.Contact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.collect(owner, func(c *models.Contact) bool { return c.Birthday != nil }), nil
}
