package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/contactbook/internal/common"
	"github.com/dmitrijs2005/contactbook/internal/server/models"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var phonePattern = regexp.MustCompile(`^[0-9+\-() ]+$`)

// SignupInput is the payload of a registration request.
type SignupInput struct {
	Email    string
	Password string
	Username string
}

func (in SignupInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&in.Username, validation.Required, validation.RuneLength(5, 16)),
		validation.Field(&in.Password, validation.Required, validation.Length(6, 72)),
	)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", common.ErrValidation, err)
}

func validateContactInput(in models.ContactInput) error {
	return invalid(validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.RuneLength(1, 30)),
		validation.Field(&in.Surname, validation.Required, validation.RuneLength(1, 30)),
		validation.Field(&in.Email, validation.Required, validation.Length(3, 50), is.Email),
		validation.Field(&in.Phone, validation.Required, validation.RuneLength(1, 20), validation.Match(phonePattern)),
		validation.Field(&in.Note, validation.RuneLength(0, 500)),
	))
}

func validateContactPatch(p models.ContactPatch) error {
	return invalid(validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.NilOrNotEmpty, validation.RuneLength(1, 30)),
		validation.Field(&p.Surname, validation.NilOrNotEmpty, validation.RuneLength(1, 30)),
		validation.Field(&p.Email, validation.NilOrNotEmpty, validation.Length(3, 50), is.Email),
		validation.Field(&p.Phone, validation.NilOrNotEmpty, validation.RuneLength(1, 20), validation.Match(phonePattern)),
		validation.Field(&p.Note, validation.RuneLength(0, 500)),
	))
}
