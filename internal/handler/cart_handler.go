package handler

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/restaurant-cart/internal/cart"
	"github.com/fairyhunter13/restaurant-cart/internal/model"
	"github.com/fairyhunter13/restaurant-cart/internal/service"
)

// CartServiceInterface defines the interface for cart business logic.
type CartServiceInterface interface {
	Open(ctx context.Context) (model.CartView, error)
	View(ctx context.Context, sessionID string) (model.CartView, error)
	AddItem(ctx context.Context, sessionID string, item model.LineItem) (model.CartView, error)
	AddItemWithSides(ctx context.Context, sessionID string, item model.LineItem, sides []model.Side) (model.CartView, error)
	AddDailyOffer(ctx context.Context, sessionID string, offer model.DailyOffer) (model.CartView, error)
	AddDailyMenu(ctx context.Context, sessionID string, menu model.DailyMenu) (model.CartView, error)
	AddCompositeMenu(ctx context.Context, sessionID string, menu model.CompositeMenu) (model.CartView, error)
	UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (model.CartView, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) (model.CartView, error)
	Clear(ctx context.Context, sessionID string) (model.CartView, error)
	ApplyCoupon(ctx context.Context, sessionID, code string) (string, model.CartView, error)
	RemoveCoupon(ctx context.Context, sessionID string) (model.CartView, error)
	ValidateSides(ctx context.Context, sessionID string) (model.SideValidation, error)
}

// CartHandler handles HTTP requests for cart operations.
type CartHandler struct {
	service   CartServiceInterface
	validator *validator.Validate
}

// NewCartHandler creates a new CartHandler with the given service and validator.
func NewCartHandler(svc CartServiceInterface, v *validator.Validate) *CartHandler {
	return &CartHandler{service: svc, validator: v}
}

// Register mounts the cart routes under /api/carts.
func (h *CartHandler) Register(router fiber.Router) {
	router.Post("/api/carts", h.OpenCart)

	carts := router.Group("/api/carts")
	carts.Get("/:session", h.GetCart)
	carts.Delete("/:session", h.ClearCart)
	carts.Post("/:session/items", h.AddItem)
	carts.Post("/:session/items/with-sides", h.AddItemWithSides)
	carts.Put("/:session/items/:item/quantity", h.UpdateQuantity)
	carts.Delete("/:session/items/:item", h.RemoveItem)
	carts.Post("/:session/daily/offers", h.AddDailyOffer)
	carts.Post("/:session/daily/menus", h.AddDailyMenu)
	carts.Post("/:session/daily/composite", h.AddCompositeMenu)
	carts.Post("/:session/coupon", h.ApplyCoupon)
	carts.Delete("/:session/coupon", h.RemoveCoupon)
	carts.Post("/:session/validate-sides", h.ValidateSides)
}

// formatValidationError converts validator errors to client-facing messages.
// Only the first failing field is reported.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := fe.Field()
			if _, path, ok := strings.Cut(fe.Namespace(), "."); ok {
				field = path
			}

			switch fe.Tag() {
			case "required":
				return "invalid request: " + field + " is required"
			case "notblank":
				return "invalid request: " + field + " cannot be whitespace only"
			case "max":
				return "invalid request: " + field + " exceeds maximum length of " + fe.Param()
			case "gte":
				return "invalid request: " + field + " must be at least " + fe.Param()
			case "lte":
				return "invalid request: " + field + " must be at most " + fe.Param()
			case "url":
				return "invalid request: " + field + " must be a valid URL"
			case "datetime":
				return "invalid request: " + field + " must be a date in YYYY-MM-DD format"
			default:
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}

// bind parses and validates the JSON body into req. On failure the 400
// response has already been written and ok is false.
func (h *CartHandler) bind(c *fiber.Ctx, req any) (ok bool, err error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}
	return true, nil
}

// fail maps service errors to HTTP responses.
func (h *CartHandler) fail(c *fiber.Ctx, err error) error {
	var minErr *cart.MinimumOrderError
	switch {
	case errors.Is(err, service.ErrInvalidSession):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid cart session"})
	case errors.Is(err, cart.ErrCouponLookupFailed):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "could not verify coupon"})
	case errors.As(err, &minErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":            minErr.Error(),
			"min_order_amount": minErr.MinOrderAmount,
		})
	case errors.Is(err, cart.ErrCouponInvalid),
		errors.Is(err, cart.ErrCouponExpired),
		errors.Is(err, cart.ErrCouponExhausted):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	log.Error().
		Err(err).
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("cart operation failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func (h *CartHandler) respond(c *fiber.Ctx, view model.CartView, err error) error {
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

// OpenCart handles POST /api/carts requests to start a cart session.
func (h *CartHandler) OpenCart(c *fiber.Ctx) error {
	view, err := h.service.Open(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// GetCart handles GET /api/carts/:session requests.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	view, err := h.service.View(c.Context(), c.Params("session"))
	return h.respond(c, view, err)
}

// ClearCart handles DELETE /api/carts/:session requests.
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	view, err := h.service.Clear(c.Context(), c.Params("session"))
	return h.respond(c, view, err)
}

// AddItem handles POST /api/carts/:session/items requests.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req model.AddItemRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	view, err := h.service.AddItem(c.Context(), c.Params("session"), req.LineItem())
	return h.respond(c, view, err)
}

// AddItemWithSides handles POST /api/carts/:session/items/with-sides requests.
func (h *CartHandler) AddItemWithSides(c *fiber.Ctx) error {
	var req model.AddItemWithSidesRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	view, err := h.service.AddItemWithSides(c.Context(), c.Params("session"), req.Item.LineItem(), req.Sides)
	return h.respond(c, view, err)
}

// itemParam returns the decoded :item path segment. Daily line ids contain
// colons, which clients usually percent-encode.
func itemParam(c *fiber.Ctx) (string, bool) {
	id, err := url.PathUnescape(c.Params("item"))
	if err != nil {
		return "", false
	}
	return id, true
}

// UpdateQuantity handles PUT /api/carts/:session/items/:item/quantity requests.
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	itemID, ok := itemParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid item id"})
	}
	var req model.UpdateQuantityRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	view, err := h.service.UpdateQuantity(c.Context(), c.Params("session"), itemID, *req.Quantity)
	return h.respond(c, view, err)
}

// RemoveItem handles DELETE /api/carts/:session/items/:item requests.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	itemID, ok := itemParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid item id"})
	}
	view, err := h.service.RemoveItem(c.Context(), c.Params("session"), itemID)
	return h.respond(c, view, err)
}

// AddDailyOffer handles POST /api/carts/:session/daily/offers requests.
func (h *CartHandler) AddDailyOffer(c *fiber.Ctx) error {
	var req model.DailyOffer
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	view, err := h.service.AddDailyOffer(c.Context(), c.Params("session"), req)
	return h.respond(c, view, err)
}

// AddDailyMenu handles POST /api/carts/:session/daily/menus requests.
func (h *CartHandler) AddDailyMenu(c *fiber.Ctx) error {
	var req model.DailyMenu
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	view, err := h.service.AddDailyMenu(c.Context(), c.Params("session"), req)
	return h.respond(c, view, err)
}

// AddCompositeMenu handles POST /api/carts/:session/daily/composite requests.
func (h *CartHandler) AddCompositeMenu(c *fiber.Ctx) error {
	var req model.CompositeMenu
	if ok, err := h.bind(c, &req); !ok {
		return err
	}
	view, err := h.service.AddCompositeMenu(c.Context(), c.Params("session"), req)
	return h.respond(c, view, err)
}

// ApplyCoupon handles POST /api/carts/:session/coupon requests.
func (h *CartHandler) ApplyCoupon(c *fiber.Ctx) error {
	var req model.ApplyCouponRequest
	if ok, err := h.bind(c, &req); !ok {
		return err
	}

	msg, view, err := h.service.ApplyCoupon(c.Context(), c.Params("session"), req.Code)
	if err != nil {
		log.Info().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("coupon_code", req.Code).
			Msg("coupon rejected")
		return h.fail(c, err)
	}

	return c.JSON(model.ApplyCouponResponse{Message: msg, Cart: view})
}

// RemoveCoupon handles DELETE /api/carts/:session/coupon requests.
func (h *CartHandler) RemoveCoupon(c *fiber.Ctx) error {
	view, err := h.service.RemoveCoupon(c.Context(), c.Params("session"))
	return h.respond(c, view, err)
}

// ValidateSides handles POST /api/carts/:session/validate-sides requests.
func (h *CartHandler) ValidateSides(c *fiber.Ctx) error {
	result, err := h.service.ValidateSides(c.Context(), c.Params("session"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(result)
}
