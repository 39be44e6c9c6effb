package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/config"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactbook/internal/timex"
)

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 100
)

// ContactService is the owner-scoped address book.
type ContactService struct {
	repomanager   repomanager.RepositoryManager
	defaultWindow int
	location      *time.Location
	now           func() time.Time
}

func NewContactService(m repomanager.RepositoryManager, cfg *config.Config) *ContactService {
	window := cfg.BirthdayWindowDays
	if window <= 0 || window > MaxBirthdayWindow {
		window = DefaultBirthdayWindow
	}
	return &ContactService{
		repomanager:   m,
		defaultWindow: window,
		location:      time.UTC,
		now:           time.Now,
	}
}

// WithClock replaces the time source used for "today". Used by tests.
func (s *ContactService) WithClock(now func() time.Time) *ContactService {
	s.now = now
	return s
}

func notFound(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrContactNotFound
	}
	return err
}

func normalizeBirthday(b *time.Time) *time.Time {
	if b == nil {
		return nil
	}
	d := timex.Date(*b, time.UTC)
	return &d
}

func (s *ContactService) Create(ctx context.Context, owner string, in models.ContactInput) (*models.Contact, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Birthday = normalizeBirthday(in.Birthday)
	if err := validateContactInput(in); err != nil {
		return nil, err
	}
	return s.repomanager.Contacts().Create(ctx, owner, in)
}

func (s *ContactService) Get(ctx context.Context, owner string, id int64) (*models.Contact, error) {
	c, err := s.repomanager.Contacts().Get(ctx, owner, id)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// page normalizes paging arguments: negative skip is rejected, a missing
// limit takes the default and an oversized one is capped.
func page(skip, limit int) (int, int, error) {
	if skip < 0 {
		return 0, 0, fmt.Errorf("%w: skip must not be negative", common.ErrValidation)
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return skip, limit, nil
}

// List returns the owner's contacts in creation order. Skipping past the end
// yields an empty slice.
func (s *ContactService) List(ctx context.Context, owner string, skip, limit int) ([]models.Contact, error) {
	skip, limit, err := page(skip, limit)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Contacts().List(ctx, owner, skip, limit)
}

// Filter returns contacts whose name, surname or email contains query,
// ignoring case.
func (s *ContactService) Filter(ctx context.Context, owner, query string, skip, limit int) ([]models.Contact, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", common.ErrValidation)
	}
	skip, limit, err := page(skip, limit)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Contacts().Filter(ctx, owner, query, skip, limit)
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

// Update applies the non-nil fields of p. A patch that changes nothing
// returns the stored contact untouched.
func (s *ContactService) Update(ctx context.Context, owner string, id int64, p models.ContactPatch) (*models.Contact, error) {
	if p.Empty() {
		return s.Get(ctx, owner, id)
	}

	p.Name = trimmed(p.Name)
	p.Surname = trimmed(p.Surname)
	p.Phone = trimmed(p.Phone)
	if p.Email != nil {
		e := normalizeEmail(*p.Email)
		p.Email = &e
	}
	p.Birthday = normalizeBirthday(p.Birthday)
	if err := validateContactPatch(p); err != nil {
		return nil, err
	}

	c, err := s.repomanager.Contacts().Update(ctx, owner, id, p)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s *ContactService) Delete(ctx context.Context, owner string, id int64) error {
	return notFound(s.repomanager.Contacts().Delete(ctx, owner, id))
}

// UpcomingBirthdays lists contacts whose birthday falls within the next
// windowDays days, today included. Zero selects the configured default.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, owner string, windowDays int) ([]UpcomingBirthday, error) {
	if windowDays < 0 || windowDays > MaxBirthdayWindow {
		return nil, fmt.Errorf("%w: window must be between 0 and %d days", common.ErrValidation, MaxBirthdayWindow)
	}
	if windowDays == 0 {
		windowDays = s.defaultWindow
	}

	all, err := s.repomanager.Contacts().ListWithBirthdays(ctx, owner)
	if err != nil {
		return nil, err
	}

	today := timex.Date(s.now(), s.location)
	return UpcomingBirthdays(all, today, windowDays), nil
}
