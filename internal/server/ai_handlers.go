package server

import (
	"strings"
	"time"

	"yourspace/internal/ai"
	"yourspace/internal/featureflags"
	"yourspace/internal/models"

	"github.com/gofiber/fiber/v2"
)

type generateProfileCodeRequest struct {
	Prompt string `json:"prompt"`
	Type   string `json:"type"`
}

// GenerateProfileCode handles POST /api/ai/generate-profile-code
// @Summary Generate profile HTML/CSS from a prompt
// @Description Backend failures come back as 200 with empty code and an explanatory message
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{prompt=string,type=string} true "Prompt and kind (html, css or both)"
// @Success 200 {object} ai.Result
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /ai/generate-profile-code [post]
func (s *Server) GenerateProfileCode(c *fiber.Ctx) error {
	var req generateProfileCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if strings.TrimSpace(req.Prompt) == "" {
		return respondServiceError(c, models.NewValidationError("Prompt cannot be empty"))
	}
	kind, err := ai.ParseKind(req.Type)
	if err != nil {
		return respondServiceError(c, err)
	}

	if !s.featureFlags.Enabled(featureflags.AIAssistant, currentUserID(c)) {
		return respondServiceError(c, models.NewUnavailableError("AI assistant is disabled", nil))
	}
	if s.generator == nil {
		return respondServiceError(c, models.NewUnavailableError("AI service is not configured", ai.ErrNotConfigured))
	}

	result, err := s.generator.GenerateProfileCode(c.UserContext(), req.Prompt, kind)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetAIStatus handles GET /api/ai/status
// @Summary AI backend status
// @Tags ai
// @Produce json
// @Success 200 {object} object{status=string,provider=string,timestamp=string}
// @Failure 503 {object} models.ErrorResponse
// @Router /ai/status [get]
func (s *Server) GetAIStatus(c *fiber.Ctx) error {
	if s.generator == nil || !s.generator.Configured() {
		return respondServiceError(c, models.NewUnavailableError("AI service is not configured", ai.ErrNotConfigured))
	}
	return c.JSON(fiber.Map{
		"status":    "AI service is configured",
		"provider":  s.generator.Provider(),
		"timestamp": time.Now().UTC(),
	})
}
