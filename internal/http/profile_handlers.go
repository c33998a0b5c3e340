package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campushub/internal/domain"
)

type ProfileResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	SRN       string `json:"srn"`
	Semester  string `json:"semester"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatarUrl"`
}

// updateProfileRequest uses pointers so omitted fields keep their value.
type updateProfileRequest struct {
	Name      *string `json:"name"`
	Username  *string `json:"username"`
	SRN       *string `json:"srn"`
	Semester  *string `json:"semester"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl"`
}

func profileToResponse(u *domain.User) ProfileResponse {
	return ProfileResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Username:  u.Profile.Username,
		SRN:       u.Profile.SRN,
		Semester:  u.Profile.Semester,
		Bio:       u.Profile.Bio,
		AvatarURL: u.Profile.AvatarURL,
	}
}

func (h *Handler) getProfile(c *gin.Context) {
	user, err := h.svc.Profiles.Get(c.Request.Context(), identity(c).ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(user))
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, invalidInput("malformed body"))
		return
	}

	userID := identity(c).ID
	current, err := h.svc.Profiles.Get(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	p := current.Profile
	p.Name = current.Name
	overlay(&p.Name, req.Name)
	overlay(&p.Username, req.Username)
	overlay(&p.SRN, req.SRN)
	overlay(&p.Semester, req.Semester)
	overlay(&p.Bio, req.Bio)
	overlay(&p.AvatarURL, req.AvatarURL)

	user, err := h.svc.Profiles.Update(c.Request.Context(), userID, p)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(user))
}

func overlay(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
