package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/astu-platform/complaint-service/internal/api/dto"
	"github.com/astu-platform/complaint-service/internal/auth"
	"github.com/astu-platform/complaint-service/internal/service"
	apperrors "github.com/astu-platform/complaint-service/pkg/util"
)

// ChatHandler proxies portal questions to the upstream completion API.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler constructs handler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Ask POST /api/chat/ask.
func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ChatAskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	answer, err := h.chat.Ask(c.UserContext(), principal.UserID, req.Question)
	if err != nil {
		return err
	}
	return c.JSON(dto.ChatAnswerResponse{Answer: answer})
}
