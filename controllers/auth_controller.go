package controllers

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/emotisync/backend/database"
	"github.com/emotisync/backend/dto"
	"github.com/emotisync/backend/middleware"
	"github.com/emotisync/backend/models"
	"github.com/emotisync/backend/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func Register(users database.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		role, err := models.ParseRole(body.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role must be client or therapist"})
			return
		}

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		now := time.Now().UTC()
		user := models.User{
			ID:           bson.NewObjectID(),
			Username:     utils.NormalizeUsername(body.Username),
			Email:        utils.NormalizeEmail(body.Email),
			PasswordHash: hash,
			Role:         role,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := users.Insert(c.Request.Context(), user); err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already in use"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "user registered successfully", "user": user.View()})
	}
}

func Login(users database.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		user, err := users.FindByEmail(ctx, utils.NormalizeEmail(body.Email))
		if err != nil {
			// Same response for unknown email and bad password.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err := utils.CheckPassword(user.PasswordHash, body.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		accessTTL := utils.AccessTTL()
		refreshTTL := utils.RefreshTTL()

		accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), string(user.Role), accessTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate access token"})
			return
		}
		refreshToken, err := utils.GenerateRefreshToken(user.ID.Hex(), refreshTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate refresh token"})
			return
		}

		// Single-session semantics: a new login overwrites any previous
		// refresh reference.
		expiresAt := time.Now().UTC().Add(refreshTTL)
		if err := users.SetRefreshToken(ctx, user.ID, refreshToken, expiresAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}

		utils.SetRefreshCookie(c, refreshToken, refreshTTL)
		c.JSON(http.StatusOK, gin.H{
			"token": accessToken,
			"user":  user.View(),
		})
	}
}

func Refresh(users database.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		refreshToken, err := c.Cookie("refreshToken")
		if err != nil || refreshToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no refresh token provided"})
			return
		}

		claims, err := utils.ValidateToken(refreshToken, os.Getenv("JWT_REFRESH_SECRET"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
			return
		}
		userID, err := bson.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
			return
		}

		// The presented token must still be the persisted reference, so a
		// logout (or a newer login) forces re-authentication.
		if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
			return
		}

		// The refresh token itself is not rotated here.
		accessToken, err := utils.GenerateAccessToken(user.ID.Hex(), string(user.Role), utils.AccessTTL())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate access token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": accessToken})
	}
}

func Logout(users database.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LogoutDTO
		_ = c.ShouldBindJSON(&body)

		refreshToken := body.RefreshToken
		if refreshToken == "" {
			refreshToken, _ = c.Cookie("refreshToken")
		}

		utils.ClearRefreshCookie(c)

		// Best-effort revoke of the persisted reference; logging out twice
		// is not an error.
		if refreshToken != "" {
			if claims, err := utils.ValidateToken(refreshToken, os.Getenv("JWT_REFRESH_SECRET")); err == nil {
				if userID, err := bson.ObjectIDFromHex(claims.UserID); err == nil {
					_ = users.ClearRefreshToken(c.Request.Context(), userID)
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
	}
}

// GET /api/protected/me
func Me(users database.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.CurrentPrincipal(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), p.UserID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user.View()})
	}
}
