package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"fire-server/src/middleware"
	"fire-server/src/models"
	"fire-server/src/util"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID string) error
}

func Register(users UserRepository, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error().Err(err).Msg("failed to decode register request body")
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		username := util.NormalizeUsername(req.Username)
		displayName := strings.TrimSpace(req.DisplayName)

		if !util.ValidateUsername(username) {
			http.Error(w, "username must be between 3 and 30 characters", http.StatusBadRequest)
			return
		}
		if !util.ValidatePassword(req.Password) {
			http.Error(w, "password must be at least 4 characters", http.StatusBadRequest)
			return
		}
		if !util.ValidateDisplayName(displayName) {
			http.Error(w, "display name is too long", http.StatusBadRequest)
			return
		}
		if displayName == "" {
			displayName = username
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error().Err(err).Str("username", username).Msg("failed to hash password")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		user := models.User{
			ID:           util.SyntheticUserID(username),
			Username:     username,
			DisplayName:  displayName,
			PasswordHash: hashedPassword,
			CreatedAt:    time.Now().UTC(),
		}
		if err := users.CreateUser(r.Context(), user); err != nil {
			if errors.Is(err, models.ErrUserExists) {
				http.Error(w, "username already exists", http.StatusConflict)
				return
			}
			log.Error().Err(err).Str("username", username).Msg("failed to create user")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		log.Info().Str("user_id", user.ID).Str("username", username).Msg("successful registration")
		writeAuth(w, http.StatusCreated, user, secret)
	}
}

func Login(users UserRepository, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var credentials struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		username := util.NormalizeUsername(credentials.Username)
		user, err := users.GetUserByUsername(r.Context(), username)
		if err != nil {
			if !errors.Is(err, models.ErrNotFound) {
				log.Error().Err(err).Str("username", username).Msg("failed to look up user")
			}
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(credentials.Password)); err != nil {
			log.Warn().Str("username", username).Str("remote_addr", r.RemoteAddr).Msg("invalid password attempt")
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		if err := users.UpdateLastLogin(r.Context(), user.ID); err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Msg("failed to update last_login")
		}

		log.Info().Str("user_id", user.ID).Str("username", username).Msg("successful login")
		writeAuth(w, http.StatusOK, *user, secret)
	}
}

func writeAuth(w http.ResponseWriter, status int, user models.User, secret string) {
	token, err := middleware.IssueToken(secret, user, time.Now())
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to generate JWT token")
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, models.AuthResponse{
		Token: token,
		User:  models.Identity{ID: user.ID, DisplayName: user.DisplayName},
	})
}
