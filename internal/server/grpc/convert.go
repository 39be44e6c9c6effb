package grpc

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/rpc"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	"github.com/dmitrijs2005/contactbook/internal/server/services"
)

func toRPCUser(u *models.User) *rpc.User {
	out := &rpc.User{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Confirmed: u.Confirmed,
		CreatedAt: u.CreatedAt,
	}
	if u.Avatar != nil {
		out.Avatar = *u.Avatar
	}
	return out
}

func formatDate(t *time.Time) rpc.Date {
	if t == nil {
		return ""
	}
	return rpc.Date(t.Format(rpc.DateLayout))
}

func parseDate(d rpc.Date) (*time.Time, error) {
	if d == "" {
		return nil, nil
	}
	t, err := time.Parse(rpc.DateLayout, string(d))
	if err != nil {
		return nil, fmt.Errorf("%w: birthday must be YYYY-MM-DD", common.ErrValidation)
	}
	return &t, nil
}

func toRPCContact(c *models.Contact) rpc.Contact {
	return rpc.Contact{
		ID:        c.ID,
		Name:      c.Name,
		Surname:   c.Surname,
		Email:     c.Email,
		Phone:     c.Phone,
		Birthday:  formatDate(c.Birthday),
		Note:      c.Note,
		CreatedAt: c.CreatedAt,
	}
}

func toRPCContacts(list []models.Contact) *rpc.ContactsResponse {
	out := &rpc.ContactsResponse{Contacts: make([]rpc.Contact, 0, len(list))}
	for i := range list {
		out.Contacts = append(out.Contacts, toRPCContact(&list[i]))
	}
	return out
}

func toRPCBirthdays(list []services.UpcomingBirthday) *rpc.UpcomingBirthdaysResponse {
	out := &rpc.UpcomingBirthdaysResponse{Birthdays: make([]rpc.Birthday, 0, len(list))}
	for i := range list {
		out.Birthdays = append(out.Birthdays, rpc.Birthday{
			Contact: toRPCContact(&list[i].Contact),
			Date:    formatDate(&list[i].Date),
		})
	}
	return out
}

func toTokenResponse(p *services.TokenPair) *rpc.TokenResponse {
	return &rpc.TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    p.TokenType,
	}
}

func toContactInput(r *rpc.CreateContactRequest) (models.ContactInput, error) {
	birthday, err := parseDate(r.Birthday)
	if err != nil {
		return models.ContactInput{}, err
	}
	return models.ContactInput{
		Name:     r.Name,
		Surname:  r.Surname,
		Email:    r.Email,
		Phone:    r.Phone,
		Birthday: birthday,
		Note:     r.Note,
	}, nil
}

func toContactPatch(r *rpc.UpdateContactRequest) (models.ContactPatch, error) {
	p := models.ContactPatch{
		Name:          r.Name,
		Surname:       r.Surname,
		Email:         r.Email,
		Phone:         r.Phone,
		ClearBirthday: r.ClearBirthday,
		Note:          r.Note,
	}
	if r.Birthday != nil && !r.ClearBirthday {
		b, err := parseDate(*r.Birthday)
		if err != nil {
			return models.ContactPatch{}, err
		}
		if b == nil {
			return models.ContactPatch{}, fmt.Errorf("%w: birthday must be YYYY-MM-DD", common.ErrValidation)
		}
		p.Birthday = b
	}
	return p, nil
}
