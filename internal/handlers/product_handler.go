package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"inventory/internal/models"
	"inventory/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	log     *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the product routes. writeGuards run before the
// create, update and delete handlers.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, writeGuards ...fiber.Handler) {
	guarded := func(handler fiber.Handler) []fiber.Handler {
		chain := make([]fiber.Handler, 0, len(writeGuards)+1)
		chain = append(chain, writeGuards...)
		return append(chain, handler)
	}

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/search/:name", h.HandleSearchProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", guarded(h.HandleCreateProduct)...)
	productRoutes.Put("/:id", guarded(h.HandleUpdateProduct)...)
	productRoutes.Delete("/:id", guarded(h.HandleDeleteProduct)...)
}

// HandleGetProducts returns every product.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductByID returns a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return h.respondError(c, err)
	}
	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(product)
}

// HandleSearchProducts returns products whose name contains the path term, ignoring case.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	term, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid search term",
		})
	}
	products, err := h.service.SearchProducts(c.UserContext(), term)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(products)
}

// HandleCreateProduct creates a product and answers 201 with the stored record.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	// Decoded as an update so that a missing field can be told apart from an explicit zero.
	var req models.ProductUpdate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	input, err := h.service.CompleteInput(req)
	if err != nil {
		return h.respondError(c, err)
	}

	product, err := h.service.CreateProduct(c.UserContext(), input)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial update; absent fields are left unchanged.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var update models.ProductUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, update)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return h.respondError(c, err)
	}
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product with ID %d deleted successfully", id),
	})
}

var errInvalidProductID = errors.New("invalid product ID")

func productID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidProductID
	}
	return uint(id), nil
}

// respondError maps service errors onto HTTP responses.
func (h *ProductHandler) respondError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError

	switch {
	case errors.Is(err, errInvalidProductID):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Product ID must be a positive integer",
		})
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErr.Violations,
		})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with ID %d not found", notFoundErr.ID),
		})
	case errors.Is(err, services.ErrDuplicateName):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Product with this name already exists",
		})
	default:
		h.log.Error("product request failed",
			zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not process product request",
			"error":   err.Error(),
		})
	}
}
