package handlers

import (
	"errors"
	"strconv"

	"productos/internal/middleware"
	"productos/internal/repositories"
	"productos/internal/services"
	"productos/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

const (
	msgProductNotFound = "Producto no encontrado."
	msgProductDeleted  = "Producto eliminado"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	log     *logrus.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes binds the product routes. Each route runs its path
// validators, then its body validators, then the input error interceptor.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	products := router.Group("/products")

	products.Get("/", h.HandleGetProducts)
	products.Get("/:id",
		middleware.Validate(validation.ProductIdentifier...),
		middleware.HandleInputErrors,
		h.HandleGetProductByID,
	)
	products.Post("/",
		middleware.Validate(validation.CreateProduct...),
		middleware.HandleInputErrors,
		h.HandleCreateProduct,
	)
	products.Put("/:id",
		middleware.Validate(validation.ProductIdentifier...),
		middleware.Validate(validation.UpdateProduct...),
		middleware.HandleInputErrors,
		h.HandleUpdateProduct,
	)
	products.Patch("/:id",
		middleware.Validate(validation.ProductIdentifier...),
		middleware.HandleInputErrors,
		h.HandleUpdateAvailability,
	)
	products.Delete("/:id",
		middleware.Validate(validation.ProductIdentifier...),
		middleware.HandleInputErrors,
		h.HandleDeleteProduct,
	)
}

// HandleGetProducts lists every product, newest first.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

// HandleGetProductByID returns one product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), productID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleCreateProduct creates a product from the validated body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	input, err := productInput(c)
	if err != nil {
		return err
	}

	product, err := h.service.CreateProduct(c.UserContext(), input)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": product})
}

// HandleUpdateProduct overwrites every mutable field of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	input, err := productInput(c)
	if err != nil {
		return err
	}

	product, err := h.service.UpdateProduct(c.UserContext(), productID(c), input)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleUpdateAvailability flips availability; the body is ignored.
func (h *ProductHandler) HandleUpdateAvailability(c *fiber.Ctx) error {
	product, err := h.service.ToggleAvailability(c.UserContext(), productID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleDeleteProduct removes a product permanently.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), productID(c)); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"data": msgProductDeleted})
}

// fail maps domain errors to their responses. Anything else goes to the
// application error handler.
func (h *ProductHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": msgProductNotFound,
		})
	case errors.Is(err, services.ErrInvalidProduct):
		h.log.WithError(err).Warn("Product input rejected by service")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return err
}

// productID reads the already validated id parameter.
func productID(c *fiber.Ctx) int64 {
	id, _ := strconv.ParseInt(c.Params("id"), 10, 64)
	return id
}

func productInput(c *fiber.Ctx) (services.ProductInput, error) {
	body, err := middleware.RequestBody(c)
	if err != nil {
		return services.ProductInput{}, fiber.NewError(fiber.StatusBadRequest, validation.MsgInvalidRequestPayload)
	}

	input := services.ProductInput{
		Name:  cast.ToString(body["name"]),
		Price: cast.ToFloat64(body["price"]),
	}
	if availability, ok := body["availability"].(bool); ok {
		input.Availability = &availability
	}
	return input, nil
}
