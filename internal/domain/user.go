package domain

import "time"

// Profile field names as exposed over the API.
const (
	FieldName         = "name"
	FieldEmail        = "email"
	FieldUsername     = "username"
	FieldProfileImage = "profileImage"
	FieldBio          = "bio"
	FieldAddress      = "address"
	FieldPhone        = "phone"
	FieldLocation     = "location"
	FieldDOB          = "dob"
	FieldWebsite      = "website"
	FieldLinkedIn     = "linkedin"
	FieldGitHub       = "github"
	FieldTwitter      = "twitter"
	FieldSkills       = "skills"
)

// ProfileFields lists the optional free-form profile strings stored next to
// name and email.
var ProfileFields = []string{
	FieldUsername,
	FieldProfileImage,
	FieldBio,
	FieldAddress,
	FieldPhone,
	FieldLocation,
	FieldDOB,
	FieldWebsite,
	FieldLinkedIn,
	FieldGitHub,
	FieldTwitter,
	FieldSkills,
}

// User represents an account within the platform.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Profile      map[string]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileValue returns a profile field or an empty string.
func (u User) ProfileValue(field string) string {
	switch field {
	case FieldName:
		return u.Name
	case FieldEmail:
		return u.Email
	}
	if u.Profile == nil {
		return ""
	}
	return u.Profile[field]
}

// PublicFields flattens the user into the map returned by the API.
func (u User) PublicFields() map[string]string {
	out := map[string]string{
		"id":       u.ID,
		FieldName:  u.Name,
		FieldEmail: u.Email,
	}
	for _, f := range ProfileFields {
		out[f] = u.ProfileValue(f)
	}
	return out
}
