package handlers

import (
	"ion-assistant/internal/dto"
	"ion-assistant/internal/models"
	"ion-assistant/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrganizerHandler covers tasks, reminders, shopping lists and savings
// boxes. They share the thin CRUD shape, so one handler carries them all.
type OrganizerHandler struct {
	tasks     *service.TaskService
	reminders *service.ReminderService
	shopping  *service.ShoppingService
	savings   *service.SavingsService
	logger    *zap.Logger
}

func NewOrganizerHandler(
	tasks *service.TaskService,
	reminders *service.ReminderService,
	shopping *service.ShoppingService,
	savings *service.SavingsService,
	logger *zap.Logger,
) *OrganizerHandler {
	return &OrganizerHandler{
		tasks:     tasks,
		reminders: reminders,
		shopping:  shopping,
		savings:   savings,
		logger:    logger,
	}
}

func (h *OrganizerHandler) CreateTask(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.tasks.CreateTask(c.Context(), userID, &req)
	if err != nil {
		if r, ok := badRequestFor(c, err); ok {
			return r
		}
		h.logger.Error("Failed to create task", zap.Error(err))
		return internalError(c, "Failed to create task")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *OrganizerHandler) ListTasks(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.tasks.ListTasks(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list tasks", zap.Error(err))
		return internalError(c, "Failed to list tasks")
	}

	return c.JSON(resp)
}

func (h *OrganizerHandler) UpdateTaskStatus(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	status := models.TaskStatus(req.Status)
	if status != models.TaskPendente && status != models.TaskConcluido {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be pendente or concluido",
		})
	}

	if err := h.tasks.SetStatus(c.Context(), userID, id, status); err != nil {
		h.logger.Error("Failed to update task", zap.Error(err))
		return internalError(c, "Failed to update task")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OrganizerHandler) DeleteTask(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	if err := h.tasks.DeleteTask(c.Context(), userID, id); err != nil {
		h.logger.Error("Failed to delete task", zap.Error(err))
		return internalError(c, "Failed to delete task")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OrganizerHandler) CreateReminder(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.reminders.CreateReminder(c.Context(), userID, &req)
	if err != nil {
		if r, ok := badRequestFor(c, err); ok {
			return r
		}
		h.logger.Error("Failed to create reminder", zap.Error(err))
		return internalError(c, "Failed to create reminder")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *OrganizerHandler) ListReminders(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.reminders.ListReminders(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list reminders", zap.Error(err))
		return internalError(c, "Failed to list reminders")
	}

	return c.JSON(resp)
}

func (h *OrganizerHandler) DeleteReminder(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid reminder ID",
		})
	}

	if err := h.reminders.DeleteReminder(c.Context(), userID, id); err != nil {
		h.logger.Error("Failed to delete reminder", zap.Error(err))
		return internalError(c, "Failed to delete reminder")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OrganizerHandler) CreateShoppingItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateShoppingItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.shopping.CreateItem(c.Context(), userID, &req)
	if err != nil {
		if r, ok := badRequestFor(c, err); ok {
			return r
		}
		h.logger.Error("Failed to create shopping item", zap.Error(err))
		return internalError(c, "Failed to create shopping item")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *OrganizerHandler) ListShoppingItems(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.shopping.ListItems(c.Context(), userID, c.Query("list"))
	if err != nil {
		h.logger.Error("Failed to list shopping items", zap.Error(err))
		return internalError(c, "Failed to list shopping items")
	}

	return c.JSON(resp)
}

func (h *OrganizerHandler) UpdateShoppingItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid item ID",
		})
	}

	var req dto.UpdateShoppingItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	status := models.ShoppingStatus(req.Status)
	if status != models.ItemPendente && status != models.ItemComprado {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be pendente or comprado",
		})
	}

	if err := h.shopping.SetItemStatus(c.Context(), userID, id, status); err != nil {
		h.logger.Error("Failed to update shopping item", zap.Error(err))
		return internalError(c, "Failed to update shopping item")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OrganizerHandler) DeleteShoppingItem(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid item ID",
		})
	}

	if err := h.shopping.DeleteItem(c.Context(), userID, id); err != nil {
		h.logger.Error("Failed to delete shopping item", zap.Error(err))
		return internalError(c, "Failed to delete shopping item")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OrganizerHandler) ListShoppingLists(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	names, err := h.shopping.ListNames(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list shopping lists", zap.Error(err))
		return internalError(c, "Failed to list shopping lists")
	}

	return c.JSON(fiber.Map{"lists": names})
}

func (h *OrganizerHandler) CreateShoppingList(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateListRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := h.shopping.CreateList(c.Context(), userID, req.Name); err != nil {
		if r, ok := badRequestFor(c, err); ok {
			return r
		}
		h.logger.Error("Failed to create shopping list", zap.Error(err))
		return internalError(c, "Failed to create shopping list")
	}

	return c.SendStatus(fiber.StatusCreated)
}

func (h *OrganizerHandler) CreateSavingsBox(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateSavingsBoxRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.savings.CreateBox(c.Context(), userID, &req)
	if err != nil {
		if r, ok := badRequestFor(c, err); ok {
			return r
		}
		h.logger.Error("Failed to create savings box", zap.Error(err))
		return internalError(c, "Failed to create savings box")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *OrganizerHandler) ListSavingsBoxes(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	resp, err := h.savings.ListBoxes(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list savings boxes", zap.Error(err))
		return internalError(c, "Failed to list savings boxes")
	}

	return c.JSON(resp)
}

func (h *OrganizerHandler) Deposit(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid savings box ID",
		})
	}

	var req dto.DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.savings.Deposit(c.Context(), userID, id, req.Amount)
	if err != nil {
		if err == service.ErrBoxNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if r, ok := badRequestFor(c, err); ok {
			return r
		}
		h.logger.Error("Failed to deposit", zap.Error(err))
		return internalError(c, "Failed to deposit")
	}

	return c.JSON(resp)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}

func internalError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": msg,
	})
}
