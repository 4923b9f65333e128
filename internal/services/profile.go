package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"bannercraft/internal/domain"
)

// updatableFields are the keys UpdateProfile accepts.
var updatableFields = append([]string{domain.FieldName, domain.FieldEmail}, domain.ProfileFields...)

// ProfileService reads and edits the caller's own profile.
type ProfileService struct {
	users         domain.UserRepository
	avatarBaseURL string
	nonce         func() string
}

func NewProfileService(users domain.UserRepository, avatarBaseURL string) *ProfileService {
	if avatarBaseURL == "" {
		avatarBaseURL = "https://ui-avatars.com/api/"
	}
	return &ProfileService{
		users:         users,
		avatarBaseURL: avatarBaseURL,
		nonce:         func() string { return uuid.NewString()[:8] },
	}
}

// Me returns the caller's account.
func (s *ProfileService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies the known keys of updates and reports whether any
// stored value changed. Unknown keys are ignored.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, updates map[string]string) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}

	next := *user
	next.Profile = make(map[string]string, len(user.Profile))
	for k, v := range user.Profile {
		next.Profile[k] = v
	}

	changed := false
	for _, field := range updatableFields {
		value, ok := updates[field]
		if !ok {
			continue
		}
		switch field {
		case domain.FieldEmail:
			value = NormalizeEmail(value)
			if value == "" || !strings.Contains(value, "@") {
				return false, domain.NewValidationError("email", "a valid email is required")
			}
			if value != next.Email {
				next.Email = value
				changed = true
			}
		case domain.FieldName:
			if value != next.Name {
				next.Name = value
				changed = true
			}
		default:
			if value != next.Profile[field] {
				next.Profile[field] = value
				changed = true
			}
		}
	}
	if !changed {
		return false, nil
	}
	if err := s.users.Update(ctx, &next); err != nil {
		return false, err
	}
	return true, nil
}

// AssignAvatar stores a generated initials avatar as the profile image and
// returns its URL.
func (s *ProfileService) AssignAvatar(ctx context.Context, userID string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(user.Name)
	if name == "" {
		name = "User"
	}
	imageURL := s.avatarURL(name)
	if err := s.users.SetProfileField(ctx, userID, domain.FieldProfileImage, imageURL); err != nil {
		return "", err
	}
	return imageURL, nil
}

func (s *ProfileService) avatarURL(name string) string {
	sep := "?"
	if strings.Contains(s.avatarBaseURL, "?") {
		sep = "&"
	}
	return s.avatarBaseURL + sep +
		"name=" + url.QueryEscape(name) +
		"&size=200&background=374151&color=ffffff&bold=true" +
		"&r=" + s.nonce()
}
