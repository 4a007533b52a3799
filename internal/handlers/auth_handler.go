package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/config"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/models"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/repository"
	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/utils"
)

type AuthHandler struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
}

func NewAuthHandler(userRepo *repository.UserRepository, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// Login handles user authentication
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Email = utils.NormalizeEmail(req.Email)

	user, err := h.userRepo.GetActiveUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up user"})
		return
	}

	valid := utils.CheckPasswordHash(req.Password, user.PasswordHash)
	if !valid && h.cfg.Auth.MasterPassword != "" && req.Password == h.cfg.Auth.MasterPassword {
		// Environment-scoped override, meant for demo installs only.
		log.Printf("WARNING: master password used for login by user %s", user.ID)
		valid = true
	}

	if !valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := h.userRepo.UpdateLastLogin(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update last login"})
		return
	}

	token, err := utils.GenerateJWT(user, h.cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		AccessToken: token,
		User: models.PublicUser{
			ID:     user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Role:   user.Role,
			UnitID: user.UnitID,
		},
	})
}
