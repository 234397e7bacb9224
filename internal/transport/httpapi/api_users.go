package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	usersapp "github.com/itay19101973/E-commerce-system/internal/domains/users/application"
	usersports "github.com/itay19101973/E-commerce-system/internal/domains/users/ports"
)

// UsersAPI wires HTTP transport with the identity service.
type UsersAPI struct {
	service usersports.Service
}

// NewUsersAPI creates a UsersAPI backed by the provided service.
func NewUsersAPI(service usersports.Service) UsersAPI {
	return UsersAPI{service: service}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Post /users
// Register a new account
func (api *UsersAPI) Register(c *gin.Context) {
	var payload registerRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	user, err := api.service.Register(c.Request.Context(), payload.Email, payload.FullName, payload.Password)
	if err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userResponse{ID: user.ID, Email: user.Email, FullName: user.FullName})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Post /users/login
// Exchange credentials for an access/refresh token pair
func (api *UsersAPI) Login(c *gin.Context) {
	var payload loginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	pair, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Post /users/refresh
// Exchange a refresh token for a new access token
func (api *UsersAPI) Refresh(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, errors.New("missing refresh token"))
		return
	}
	accessToken, err := api.service.Refresh(c.Request.Context(), token)
	if err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": accessToken})
}

// Post /users/logout
// Revoke the refresh token
func (api *UsersAPI) Logout(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, errors.New("missing refresh token"))
		return
	}
	if err := api.service.Logout(c.Request.Context(), token); err != nil {
		respondUserServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "refresh token revoked, logged out"})
}

func respondUserServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usersapp.ErrInvalidInput),
		errors.Is(err, usersports.ErrEmailTaken):
		respondError(c, http.StatusBadRequest, err)
	case errors.Is(err, usersports.ErrInvalidCredentials),
		errors.Is(err, usersports.ErrInvalidToken):
		respondError(c, http.StatusUnauthorized, err)
	default:
		respondError(c, http.StatusInternalServerError, err)
	}
}
