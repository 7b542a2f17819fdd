package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory/internal/models"
	"inventory/internal/repositories"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var productTracer = otel.Tracer("ProductService")

// EventPublisher delivers product lifecycle events, e.g. to a message broker.
type EventPublisher interface {
	PublishProductEvent(event models.ProductEvent) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo        repositories.ProductRepository
	validator   *ProductValidator
	publisher   EventPublisher
	log         *zap.Logger
	uniqueNames bool
}

// ProductServiceOption configures optional ProductService behaviour.
type ProductServiceOption func(*ProductService)

// WithUniqueNames turns on the policy that rejects a second product with the same name.
func WithUniqueNames(enabled bool) ProductServiceOption {
	return func(s *ProductService) { s.uniqueNames = enabled }
}

// WithEventPublisher publishes an event after every successful change.
func WithEventPublisher(p EventPublisher) ProductServiceOption {
	return func(s *ProductService) { s.publisher = p }
}

func WithLogger(log *zap.Logger) ProductServiceOption {
	return func(s *ProductService) { s.log = log }
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, opts ...ProductServiceOption) *ProductService {
	s := &ProductService{
		repo:      repo,
		validator: NewProductValidator(),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CompleteInput turns a create request whose fields may be absent into a
// ProductInput. Absent fields are reported before the rule violations of the
// fields that were sent.
func (s *ProductService) CompleteInput(u models.ProductUpdate) (models.ProductInput, error) {
	var violations []string
	if u.Name == nil {
		violations = append(violations, "Name is required")
	}
	if u.Quantity == nil {
		violations = append(violations, "Quantity is required")
	}
	if u.Price == nil {
		violations = append(violations, "Price is required")
	}
	if len(violations) > 0 {
		violations = append(violations, s.validator.ValidateUpdate(u)...)
		return models.ProductInput{}, &ValidationError{Violations: violations}
	}
	return models.ProductInput{Name: *u.Name, Quantity: *u.Quantity, Price: *u.Price}, nil
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	ctx, span := productTracer.Start(ctx, "ProductService.GetAllProducts")
	defer span.End()

	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, s.fail(span, err)
	}
	span.SetAttributes(attribute.Int("product.count", len(products)))
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	ctx, span := productTracer.Start(ctx, "ProductService.GetProductByID",
		trace.WithAttributes(attribute.Int64("product.id", int64(id))))
	defer span.End()

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(span, notFound(id, err))
	}
	return product, nil
}

// SearchProducts returns products whose name contains term, ignoring case.
func (s *ProductService) SearchProducts(ctx context.Context, term string) ([]models.Product, error) {
	ctx, span := productTracer.Start(ctx, "ProductService.SearchProducts",
		trace.WithAttributes(attribute.String("product.search", term)))
	defer span.End()

	products, err := s.repo.SearchByName(ctx, term)
	if err != nil {
		return nil, s.fail(span, err)
	}
	return products, nil
}

// CreateProduct validates input and stores it as a new product.
func (s *ProductService) CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	ctx, span := productTracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	if v := s.validator.Validate(input); len(v) > 0 {
		return nil, s.fail(span, &ValidationError{Violations: v})
	}
	if err := s.checkNameAvailable(ctx, input.Name, 0); err != nil {
		return nil, s.fail(span, err)
	}

	product := &models.Product{
		Name:     input.Name,
		Quantity: input.Quantity,
		Price:    input.Price,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, s.fail(span, err)
	}
	span.SetAttributes(attribute.Int64("product.id", int64(product.ID)))
	s.log.Info("product created", zap.Uint("id", product.ID), zap.String("name", product.Name))

	s.publish(models.ProductCreated, product.ID, product)
	return product, nil
}

// UpdateProduct applies the fields set on update to an existing product.
// Nothing is written unless every supplied field is valid.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, update models.ProductUpdate) (*models.Product, error) {
	ctx, span := productTracer.Start(ctx, "ProductService.UpdateProduct",
		trace.WithAttributes(attribute.Int64("product.id", int64(id))))
	defer span.End()

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(span, notFound(id, err))
	}
	if v := s.validator.ValidateUpdate(update); len(v) > 0 {
		return nil, s.fail(span, &ValidationError{Violations: v})
	}
	if update.Name != nil && *update.Name != product.Name {
		if err := s.checkNameAvailable(ctx, *update.Name, id); err != nil {
			return nil, s.fail(span, err)
		}
	}

	update.Apply(product)
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, s.fail(span, notFound(id, err))
	}
	s.log.Info("product updated", zap.Uint("id", id))

	s.publish(models.ProductUpdated, id, product)
	return product, nil
}

// DeleteProduct permanently removes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	ctx, span := productTracer.Start(ctx, "ProductService.DeleteProduct",
		trace.WithAttributes(attribute.Int64("product.id", int64(id))))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(span, notFound(id, err))
	}
	s.log.Info("product deleted", zap.Uint("id", id))

	s.publish(models.ProductDeleted, id, nil)
	return nil
}

// checkNameAvailable enforces the unique-name policy. self is the ID being
// renamed, 0 on create.
func (s *ProductService) checkNameAvailable(ctx context.Context, name string, self uint) error {
	if !s.uniqueNames {
		return nil
	}
	existing, err := s.repo.FindByName(ctx, name)
	switch {
	case errors.Is(err, repositories.ErrProductNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to check product name: %w", err)
	case existing.ID != self:
		return ErrDuplicateName
	}
	return nil
}

func (s *ProductService) publish(eventType models.ProductEventType, id uint, product *models.Product) {
	if s.publisher == nil {
		return
	}
	event := models.ProductEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		ProductID:  id,
		OccurredAt: time.Now().UTC(),
	}
	if product != nil {
		snapshot := *product
		event.Product = &snapshot
	}
	if err := s.publisher.PublishProductEvent(event); err != nil {
		s.log.Warn("failed to publish product event",
			zap.String("type", string(eventType)), zap.Uint("id", id), zap.Error(err))
	}
}

// fail records err on span. Client errors are not marked as span errors.
func (s *ProductService) fail(span trace.Span, err error) error {
	if !IsValidationError(err) && !IsNotFound(err) && !errors.Is(err, ErrDuplicateName) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// notFound translates the repository sentinel into a *NotFoundError.
func notFound(id uint, err error) error {
	if errors.Is(err, repositories.ErrProductNotFound) {
		return &NotFoundError{ID: id}
	}
	return err
}
