package models

import "time"

// Contact is one address-book entry. ID grows monotonically, so ordering by ID
// is creation order.
type Contact struct {
	ID      int64
	UserID  string
	Name    string
	Surname string
	Email   string
	Phone   string
	// Birthday is a calendar date at midnight UTC.
	Birthday  *time.Time
	Note      string
	CreatedAt time.Time
}

// ContactInput carries the fields accepted on create.
type ContactInput struct {
	Name     string
	Surname  string
	Email    string
	Phone    string
	Birthday *time.Time
	Note     string
}

// ContactPatch is a partial update. Nil fields are left unchanged;
// ClearBirthday removes a stored birthday.
type ContactPatch struct {
	Name          *string
	Surname       *string
	Email         *string
	Phone         *string
	Birthday      *time.Time
	ClearBirthday bool
	Note          *string
}

// Apply returns a copy of c with the patch applied.
func (p ContactPatch) Apply(c Contact) Contact {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Surname != nil {
		c.Surname = *p.Surname
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.ClearBirthday {
		c.Birthday = nil
	} else if p.Birthday != nil {
		b := *p.Birthday
		c.Birthday = &b
	}
	if p.Note != nil {
		c.Note = *p.Note
	}
	return c
}

// Empty reports whether the patch changes nothing.
func (p ContactPatch) Empty() bool {
	return p.Name == nil && p.Surname == nil && p.Email == nil && p.Phone == nil &&
		p.Birthday == nil && !p.ClearBirthday && p.Note == nil
}
