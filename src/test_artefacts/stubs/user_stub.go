package stubs

import (
	"webservicepoc/src/domain"
	"webservicepoc/src/domain/entities"

	"github.com/go-faker/faker/v4"
)

type UserStub struct {
	user entities.User
}

func NewUserStub() UserStub {
	user := entities.User{
		Name:    faker.Name(),
		Email:   faker.Email(),
		Picture: faker.URL(),
		Role:    domain.RoleUser,
	}

	return UserStub{user: user}
}

func (us UserStub) WithEmail(email string) UserStub {
	us.user.Email = email
	return us
}

func (us UserStub) WithRole(role domain.Role) UserStub {
	us.user.Role = role
	return us
}

func (us UserStub) Get() entities.User {
	return us.user
}

// Principal is the session view of the stubbed user.
func (us UserStub) Principal() *domain.Principal {
	return us.user.Principal()
}
