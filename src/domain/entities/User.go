package entities

import "webservicepoc/src/domain"

// User is the local account created on the first OAuth2 login.
type User struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name" validate:"required"`
	Email   string      `json:"email" validate:"required,email"`
	Picture string      `json:"picture,omitempty"`
	Role    domain.Role `json:"role" validate:"required,oneof=GUEST USER"`
	BaseTime
}

// Update refreshes the profile fields the provider may change between logins.
func (u *User) Update(name string, picture string) *User {
	u.Name = name
	u.Picture = picture
	return u
}

func (u User) RoleKey() string {
	return u.Role.Key()
}

func (u User) Validate() error {
	return validateStruct(u)
}

func (u User) Principal() *domain.Principal {
	return &domain.Principal{
		UserID:  u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Picture: u.Picture,
		Role:    u.Role,
	}
}
