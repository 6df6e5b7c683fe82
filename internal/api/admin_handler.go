package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/padelpoint/booking-backend/internal/auth"
	"github.com/padelpoint/booking-backend/internal/pkg/apperror"
	"github.com/padelpoint/booking-backend/internal/pkg/response"
)

var errInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid credentials")

// AdminHandler signs the single configured admin in. There are no admin
// accounts in the database; the identity comes from configuration.
type AdminHandler struct {
	adminEmail        string
	adminPasswordHash string
	hasher            auth.PasswordHasher
	jwtManager        *auth.JWTManager
}

func NewAdminHandler(adminEmail, adminPasswordHash string, hasher auth.PasswordHasher, jwtManager *auth.JWTManager) *AdminHandler {
	return &AdminHandler{
		adminEmail:        adminEmail,
		adminPasswordHash: adminPasswordHash,
		hasher:            hasher,
		jwtManager:        jwtManager,
	}
}

func (h *AdminHandler) Login(c *gin.Context) {
	var body AdminLoginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if body.Email != h.adminEmail {
		response.Error(c, errInvalidCredentials)
		return
	}
	if err := h.hasher.Compare(h.adminPasswordHash, body.Password); err != nil {
		response.Error(c, errInvalidCredentials)
		return
	}

	token, err := h.jwtManager.GenerateToken(body.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, AdminLoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
	})
}
