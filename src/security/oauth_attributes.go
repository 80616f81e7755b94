package security

import (
	"fmt"

	"webservicepoc/src/domain"
	"webservicepoc/src/domain/entities"
)

// OAuthAttributes is a provider profile normalised to the fields a local
// account needs.
type OAuthAttributes struct {
	Attributes       map[string]any
	NameAttributeKey string
	Name             string
	Email            string
	Picture          string
}

// MapProfile reads the raw user-info payload of a registered provider.
// Google returns a flat object keyed by "sub"; Naver nests the profile
// under "response".
func MapProfile(registrationID string, attributes map[string]any) (OAuthAttributes, error) {
	var mapped OAuthAttributes

	switch registrationID {
	case "google":
		mapped = ofGoogle(attributes)
	case "naver":
		var err error
		if mapped, err = ofNaver(attributes); err != nil {
			return OAuthAttributes{}, err
		}
	default:
		return OAuthAttributes{}, fmt.Errorf("MapProfile - unsupported provider %q: %w", registrationID, domain.ErrBadRequest)
	}

	if mapped.Email == "" {
		return OAuthAttributes{}, fmt.Errorf("MapProfile - %s profile without email: %w", registrationID, domain.ErrValidation)
	}
	if mapped.Name == "" {
		mapped.Name = mapped.Email
	}

	return mapped, nil
}

func ofGoogle(attributes map[string]any) OAuthAttributes {
	return OAuthAttributes{
		Attributes:       attributes,
		NameAttributeKey: "sub",
		Name:             stringAttribute(attributes, "name"),
		Email:            stringAttribute(attributes, "email"),
		Picture:          stringAttribute(attributes, "picture"),
	}
}

func ofNaver(attributes map[string]any) (OAuthAttributes, error) {
	response, ok := attributes["response"].(map[string]any)
	if !ok {
		return OAuthAttributes{}, fmt.Errorf("MapProfile - naver profile without response: %w", domain.ErrValidation)
	}

	return OAuthAttributes{
		Attributes:       response,
		NameAttributeKey: "id",
		Name:             stringAttribute(response, "name"),
		Email:            stringAttribute(response, "email"),
		Picture:          stringAttribute(response, "profile_image"),
	}, nil
}

func stringAttribute(attributes map[string]any, key string) string {
	value, _ := attributes[key].(string)
	return value
}

// ToEntity builds the account created on a first login.
func (a OAuthAttributes) ToEntity(role domain.Role) entities.User {
	return entities.User{
		Name:    a.Name,
		Email:   a.Email,
		Picture: a.Picture,
		Role:    role,
	}
}
