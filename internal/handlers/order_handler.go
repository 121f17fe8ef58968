package handlers

import (
	"pasar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service     *services.OrderService
	transitions *services.OrderTransitionService
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, transitions *services.OrderTransitionService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:     service,
		transitions: transitions,
		validate:    validator.New(),
		logger:      logger,
	}
}

// RegisterRoutes registers the order routes behind auth. adminOnly guards
// order purging.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth, adminOnly fiber.Handler) {
	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Delete("/:id", adminOnly, h.HandleDeleteOrder)
}

// OrderItemRequest is one line of an order request.
type OrderItemRequest struct {
	ListingID uint `json:"listing_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest represents the request body for placing an order.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// HandleGetOrders lists the orders visible to the caller.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	a, ok, err := actor(c)
	if !ok {
		return err
	}
	orders, err := h.service.ListOrders(c.UserContext(), a)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	a, ok, err := actor(c)
	if !ok {
		return err
	}
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	order, err := h.service.GetOrder(c.UserContext(), a, id)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleCreateOrder places a pending order for the authenticated buyer.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	a, ok, err := actor(c)
	if !ok {
		return err
	}
	var req CreateOrderRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, services.OrderItemInput{ListingID: item.ListingID, Quantity: item.Quantity})
	}
	order, err := h.service.CreateOrder(c.UserContext(), a, items)
	if err != nil {
		return respondError(c, h.logger, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleUpdateOrderStatus moves an order to the requested status on behalf
// of the caller.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	a, ok, err := actor(c)
	if !ok {
		return err
	}
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	var req StatusRequest
	if ok, err := parseBody(c, h.validate, &req); !ok {
		return err
	}

	order, err := h.transitions.Transition(c.UserContext(), id, req.Status, a)
	if err != nil {
		return respondError(c, h.logger, "Order update failed", err)
	}
	return c.JSON(order)
}

// HandleDeleteOrder purges an order and its items.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	a, ok, err := actor(c)
	if !ok {
		return err
	}
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	if err := h.service.PurgeOrder(c.UserContext(), a, id); err != nil {
		return respondError(c, h.logger, "Could not delete order", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
