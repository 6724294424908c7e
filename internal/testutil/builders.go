package testutil

import (
	"encoding/json"

	domainauth "github.com/educa/educa-web/internal/domain/auth"
	"github.com/educa/educa-web/internal/domain/handoff"
)

// RawUserBuilder provides a fluent interface for building backend user records for testing.
type RawUserBuilder struct {
	u domainauth.RawUser
}

// NewRawUser creates a RawUserBuilder for a school administrator.
func NewRawUser() *RawUserBuilder {
	return &RawUserBuilder{
		u: domainauth.RawUser{
			ID:        "1",
			Email:     "a@b.com",
			FirstName: "Jean",
			LastName:  "Pierre",
			Role:      "ADMIN_ECOLE",
		},
	}
}

// WithID sets the user ID.
func (b *RawUserBuilder) WithID(id string) *RawUserBuilder {
	b.u.ID = id
	return b
}

// WithEmail sets the email.
func (b *RawUserBuilder) WithEmail(email string) *RawUserBuilder {
	b.u.Email = email
	return b
}

// WithName sets first and last name.
func (b *RawUserBuilder) WithName(first, last string) *RawUserBuilder {
	b.u.FirstName = first
	b.u.LastName = last
	return b
}

// WithRole sets the backend role code.
func (b *RawUserBuilder) WithRole(code string) *RawUserBuilder {
	b.u.Role = code
	return b
}

// WithSchool sets the school ID.
func (b *RawUserBuilder) WithSchool(id string) *RawUserBuilder {
	b.u.SchoolID = &id
	return b
}

// Build returns the record.
func (b *RawUserBuilder) Build() domainauth.RawUser {
	return b.u
}

// JSON returns the record serialized the way the login application sends it.
func (b *RawUserBuilder) JSON() string {
	data, err := json.Marshal(b.u)
	if err != nil {
		panic(err) //nolint:forbidigo // RawUser always marshals
	}
	return string(data)
}

// Bundle returns a handoff bundle for this user with the given access token.
func (b *RawUserBuilder) Bundle(accessToken string) handoff.Bundle {
	return handoff.Bundle{
		AccessToken: accessToken,
		UserJSON:    b.JSON(),
		Destination: handoff.DefaultDestination,
	}
}
