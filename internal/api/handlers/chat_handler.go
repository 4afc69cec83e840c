package handlers

import (
	"bufio"

	"ion-assistant/internal/dto"
	"ion-assistant/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	reply, err := h.chatService.Chat(c.Context(), userID, req.Message)
	if err != nil {
		h.logger.Error("Chat failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": service.UserFacingError(err),
		})
	}

	return c.JSON(dto.ChatResponse{Reply: reply})
}

// ChatStream resolves the full reply first, then streams it to the client
// with a typing cadence.
func (h *ChatHandler) ChatStream(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	reply, err := h.chatService.Chat(c.Context(), userID, req.Message)
	if err != nil {
		h.logger.Error("Chat failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": service.UserFacingError(err),
		})
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		if err := h.chatService.StreamReply(w, reply); err != nil {
			h.logger.Warn("Stream interrupted", zap.Error(err))
		}
	}))
	return nil
}
