package controller

import (
	"career-compass-be/internal/pkg/serverutils"
	"career-compass-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUploadController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type uploadController struct {
	service service.IUploadService
}

func NewUploadController(service service.IUploadService) IUploadController {
	return &uploadController{service: service}
}

func (c *uploadController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/upload/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Upload)
	h.Get("", c.List)
}

func (c *uploadController) Upload(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	file, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "file is required")
	}

	var sessionId *uuid.UUID
	if raw := ctx.FormValue("session_id"); raw != "" {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid session_id")
		}
		sessionId = &id
	}

	res, err := c.service.StoreUpload(ctx.Context(), userId, sessionId, file)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("File uploaded", res))
}

func (c *uploadController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.ListUploads(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Uploads fetched", res))
}
