package handler

import (
	"os"

	"career-compass-be/internal/pkg/logger"
	"career-compass-be/internal/pkg/serverutils"
	"career-compass-be/internal/service"
	internalWS "career-compass-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UsageHandler serves the quota status endpoint and the websocket feed
// that pushes live usage events.
type UsageHandler struct {
	service service.IUsageService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewUsageHandler(service service.IUsageService, hub *internalWS.Hub, log logger.ILogger) *UsageHandler {
	return &UsageHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

func (h *UsageHandler) RegisterRoutes(r fiber.Router) {
	usage := r.Group("/usage/v1")
	usage.Use(serverutils.JwtMiddleware)
	usage.Get("/status", h.GetStatus)

	// Websocket handshake does its own auth: browsers cannot set headers
	// on the upgrade request, so a query token is accepted too.
	r.Get("/ws/v1/usage", h.ServeWs)
}

func (h *UsageHandler) GetStatus(c *fiber.Ctx) error {
	userIdStr := c.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := h.service.GetStatus(c.Context(), userId)
	if err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse("Usage status", res))
}

// ServeWs authenticates the handshake and upgrades the connection.
func (h *UsageHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("UsageHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	userIdStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}

	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID format in token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("UsageHandler", "Starting usage feed session", map[string]interface{}{"user_id": userId})
			internalWS.ServeWs(h.hub, conn, userId)
			h.logger.Info("UsageHandler", "Usage feed session ended", map[string]interface{}{"user_id": userId})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
