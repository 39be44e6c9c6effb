package rpc

import "time"

type Empty struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type ConfirmEmailRequest struct {
	Token string `json:"token"`
}

type RequestConfirmationRequest struct {
	Email string `json:"email"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar,omitempty"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateAvatarRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// Date is a calendar date in YYYY-MM-DD form.
type Date string

const DateLayout = "2006-01-02"

type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Birthday  Date      `json:"birthday,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateContactRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Birthday Date   `json:"birthday,omitempty"`
	Note     string `json:"note,omitempty"`
}

type ContactIDRequest struct {
	ID int64 `json:"id"`
}

type UpdateContactRequest struct {
	ID            int64   `json:"id"`
	Name          *string `json:"name,omitempty"`
	Surname       *string `json:"surname,omitempty"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Birthday      *Date   `json:"birthday,omitempty"`
	ClearBirthday bool    `json:"clear_birthday,omitempty"`
	Note          *string `json:"note,omitempty"`
}

type ListContactsRequest struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

type FilterContactsRequest struct {
	Query string `json:"query"`
	Skip  int    `json:"skip"`
	Limit int    `json:"limit"`
}

type ContactsResponse struct {
	Contacts []Contact `json:"contacts"`
}

type UpcomingBirthdaysRequest struct {
	Days int `json:"days"`
}

type Birthday struct {
	Contact Contact `json:"contact"`
	Date    Date    `json:"date"`
}

type UpcomingBirthdaysResponse struct {
	Birthdays []Birthday `json:"birthdays"`
}
