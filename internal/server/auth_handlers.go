package server

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"yourspace/internal/middleware"
	"yourspace/internal/models"
	"yourspace/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Username string `json:"username" validate:"username"`
	Email    string `json:"email" validate:"email,max=255"`
	Password string `json:"password" validate:"min=6,max=72"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

const msgInvalidCredentials = "Invalid username/email or password"

// Register handles POST /api/auth/register
// @Summary User signup
// @Description Register a new user account with an empty profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string} true "Signup request"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} models.AuthResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return authFailure(c, "Invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Username == "" || req.Email == "" || strings.TrimSpace(req.Password) == "" {
		return authFailure(c, "All fields are required")
	}
	if err := validation.Struct(req); err != nil {
		return authFailure(c, appErrorMessage(err))
	}

	if existing, err := s.userRepo.GetByUsername(ctx, req.Username); err != nil {
		return respondServiceError(c, err)
	} else if existing != nil {
		return authFailure(c, "Username is already taken")
	}
	if existing, err := s.userRepo.GetByEmail(ctx, req.Email); err != nil {
		return respondServiceError(c, err)
	} else if existing != nil {
		return authFailure(c, "Email is already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// a concurrent signup won the unique index
		if models.HasCode(err, models.CodeConflict) {
			return authFailure(c, appErrorMessage(err))
		}
		return respondServiceError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered",
		slog.Uint64("user_id", uint64(user.ID)))
	return s.respondWithToken(c, user, "Welcome, "+user.Username+"!")
}

// Login handles POST /api/auth/login
// @Summary User login
// @Description Authenticate by username or email; also sets the token cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{usernameOrEmail=string,password=string} true "Login credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} models.AuthResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return authFailure(c, "Invalid request body")
	}
	login := strings.TrimSpace(req.UsernameOrEmail)
	if login == "" || req.Password == "" {
		return authFailure(c, "All fields are required")
	}

	user, err := s.userRepo.GetByUsernameOrEmail(c.UserContext(), login)
	if err != nil {
		return respondServiceError(c, err)
	}
	if user == nil {
		return authFailure(c, msgInvalidCredentials)
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); cmpErr != nil {
		return authFailure(c, msgInvalidCredentials)
	}

	return s.respondWithToken(c, user, "Welcome back, "+user.Username+"!")
}

// Logout handles POST /api/auth/logout
// @Summary Logout
// @Description Revoke the current token and clear the cookie
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.AuthResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	jti, _ := c.Locals("jti").(string)
	expiresAt, _ := c.Locals("tokenExpiresAt").(time.Time)

	if jti != "" && s.redis != nil {
		ttl := time.Until(expiresAt)
		if ttl < time.Second {
			ttl = time.Second
		}
		if err := s.redis.Set(c.UserContext(), revokedTokenKey(jti), "1", ttl).Err(); err != nil {
			return respondServiceError(c, models.NewUnavailableError("Could not revoke token", err))
		}
	} else if jti != "" {
		middleware.Logger.WarnContext(c.UserContext(), "logout without redis, token stays valid until expiry")
	}

	c.ClearCookie(authCookieName)
	return c.JSON(models.AuthResponse{Success: true, Message: "Logged out"})
}

func (s *Server) respondWithToken(c *fiber.Ctx, user *models.User, message string) error {
	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}

	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(tokenTTL),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	dto := user.ToDto()
	return c.JSON(models.AuthResponse{
		Success: true,
		Message: message,
		Token:   token,
		User:    &dto,
	})
}

func authFailure(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.AuthResponse{Success: false, Message: message})
}

func appErrorMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// generateToken creates a JWT token for the given user ID and username
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(tokenTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
