package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"productos/internal/models"
	"productos/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// ErrInvalidProduct is returned when an input breaks a product invariant.
var ErrInvalidProduct = errors.New("invalid product")

// Product event types.
const (
	EventProductCreated             = "product.created"
	EventProductUpdated             = "product.updated"
	EventProductAvailabilityChanged = "product.availability_changed"
	EventProductDeleted             = "product.deleted"
)

// EventPublisher delivers product events to an external broker.
type EventPublisher interface {
	PublishJSON(eventType string, payload any) error
}

// ProductEvent is the payload published after every successful write.
type ProductEvent struct {
	Type       string         `json:"type"`
	Product    models.Product `json:"product"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// ProductInput carries the writable fields of a product.
// A nil Availability means the default (available) on create.
type ProductInput struct {
	Name         string  `validate:"required"`
	Price        float64 `validate:"gt=0"`
	Availability *bool
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	validate  *validator.Validate
	log       *logrus.Logger
}

// NewProductService creates a new ProductService. publisher may be nil, in
// which case no events are emitted.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, log *logrus.Logger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		validate:  validator.New(),
		log:       log,
	}
}

// GetAllProducts retrieves all products, newest first.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct stores a new product; the ID is assigned by the store.
func (s *ProductService) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := s.check(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:         input.Name,
		Price:        input.Price,
		Availability: true,
	}
	if input.Availability != nil {
		product.Availability = *input.Availability
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	s.publish(EventProductCreated, product)
	return product, nil
}

// UpdateProduct overwrites name, price and availability of an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, input ProductInput) (*models.Product, error) {
	if err := s.check(input); err != nil {
		return nil, err
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Price = input.Price
	if input.Availability != nil {
		product.Availability = *input.Availability
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.publish(EventProductUpdated, product)
	return product, nil
}

// ToggleAvailability flips the stored availability of a product.
func (s *ProductService) ToggleAvailability(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Availability = !product.Availability
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.publish(EventProductAvailabilityChanged, product)
	return product, nil
}

// DeleteProduct permanently removes a product.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(EventProductDeleted, product)
	return nil
}

func (s *ProductService) check(input ProductInput) error {
	if err := s.validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	return nil
}

// publish is best effort: a broker failure never fails the write.
func (s *ProductService) publish(eventType string, product *models.Product) {
	if s.publisher == nil {
		return
	}

	event := ProductEvent{
		Type:       eventType,
		Product:    *product,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishJSON(eventType, event); err != nil {
		s.log.WithError(err).
			WithField("event", eventType).
			WithField("product_id", product.ID).
			Warn("Failed to publish product event")
		return
	}
	s.log.WithField("event", eventType).
		WithField("product_id", product.ID).
		Debug("Published product event")
}
