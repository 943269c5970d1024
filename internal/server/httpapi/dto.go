package httpapi

import (
	"time"

	"github.com/dmitrijs2005/usermanagement/internal/server/models"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type profileResponse struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type updateResponse struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	UpdatedAt time.Time `json:"updated_at"`
}

type profileWithRolesResponse struct {
	profileResponse
	Roles []models.RoleName `json:"roles"`
}

func newProfileResponse(a *models.Account) profileResponse {
	return profileResponse{UserID: a.ID, Username: a.Username, Email: a.Email, CreatedAt: a.CreatedAt}
}

func newUpdateResponse(a *models.Account) updateResponse {
	return updateResponse{UserID: a.ID, Username: a.Username, Email: a.Email, UpdatedAt: a.UpdatedAt}
}
