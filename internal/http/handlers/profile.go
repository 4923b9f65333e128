package handlers

import (
	"encoding/json"
	"net/http"

	"bannercraft/internal/domain"
)

type updateProfileResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type avatarResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	ImageURL string `json:"imageUrl"`
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	user, err := a.Profiles.Me(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err, "User not found")
		return
	}
	a.json(w, http.StatusOK, publicUser(user))
}

func (a *App) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var raw map[string]json.RawMessage
	if !a.decode(w, r, &raw) {
		return
	}
	updates := make(map[string]string, len(raw))
	for key, value := range raw {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			if isProfileKey(key) {
				a.error(w, http.StatusBadRequest, "bad_request", key+": must be a string")
				return
			}
			continue
		}
		updates[key] = s
	}

	changed, err := a.Profiles.UpdateProfile(r.Context(), a.currentUserID(r), updates)
	if err != nil {
		a.fail(w, r, err, "User not found")
		return
	}
	if !changed {
		a.json(w, http.StatusOK, updateProfileResponse{Success: false, Message: "No changes made"})
		return
	}
	a.json(w, http.StatusOK, updateProfileResponse{Success: true, Message: "Profile updated"})
}

func (a *App) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	imageURL, err := a.Profiles.AssignAvatar(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err, "User not found")
		return
	}
	a.json(w, http.StatusOK, avatarResponse{
		Success:  true,
		Message:  "Profile image updated successfully",
		ImageURL: imageURL,
	})
}

func isProfileKey(key string) bool {
	if key == domain.FieldName || key == domain.FieldEmail {
		return true
	}
	for _, f := range domain.ProfileFields {
		if f == key {
			return true
		}
	}
	return false
}
