package soap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inventory/internal/models"
	"inventory/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const defaultTimeout = 10 * time.Second

// Client calls a remote inventory SOAP service. Client faults are translated
// back into the service error types, so callers handle remote and local
// inventories the same way.
type Client struct {
	endpoint string
	timeout  time.Duration
}

// NewClient creates a Client for the endpoint URL, e.g. http://localhost:8000/.
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		timeout:  defaultTimeout,
	}
}

func (c *Client) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	var resp GetAllProductsResponse
	if err := c.call(ctx, "GetAllProducts", &GetAllProducts{}, &resp); err != nil {
		return nil, err
	}
	products := make([]models.Product, 0, len(resp.Products))
	for _, p := range resp.Products {
		products = append(products, p.toModel())
	}
	return products, nil
}

func (c *Client) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var resp GetProductResponse
	if err := c.call(ctx, "GetProduct", &GetProduct{ProductID: id}, &resp); err != nil {
		return nil, err
	}
	product := resp.Product.toModel()
	return &product, nil
}

func (c *Client) CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	req := &CreateProduct{Name: &input.Name, Quantity: &input.Quantity, Price: &input.Price}
	var resp CreateProductResponse
	if err := c.call(ctx, "CreateProduct", req, &resp); err != nil {
		return nil, err
	}
	product := resp.Product.toModel()
	return &product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id uint, update models.ProductUpdate) (*models.Product, error) {
	req := &UpdateProduct{
		ProductID: id,
		Name:      update.Name,
		Quantity:  update.Quantity,
		Price:     update.Price,
	}
	var resp UpdateProductResponse
	if err := c.call(ctx, "UpdateProduct", req, &resp); err != nil {
		return nil, err
	}
	product := resp.Product.toModel()
	return &product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	var resp DeleteProductResponse
	return c.call(ctx, "DeleteProduct", &DeleteProduct{ProductID: id}, &resp)
}

// call posts req as the body of a SOAP envelope and decodes the reply into resp.
func (c *Client) call(ctx context.Context, action string, req, resp interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := marshalEnvelope(req, nil)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", action, err)
	}

	agent := fiber.Post(c.endpoint)
	agent.ContentType(contentType)
	agent.Set("SOAPAction", `"`+action+`"`)
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		agent.Set(k, v)
	}
	if timeout := c.timeoutFor(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}
	agent.Body(payload)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s request to %s failed: %w", action, c.endpoint, errors.Join(errs...))
	}

	d, start, err := openBody(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: unexpected response (HTTP %d): %w", action, code, err)
	}
	if isFault(start) {
		var fault Fault
		if err := d.DecodeElement(&fault, &start); err != nil {
			return fmt.Errorf("%s: failed to decode fault: %w", action, err)
		}
		return faultError(&fault)
	}
	if err := d.DecodeElement(resp, &start); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", action, err)
	}
	return nil
}

func (c *Client) timeoutFor(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout == 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

// faultError maps a client fault onto the matching service error. Anything
// else is returned as the *Fault itself.
func faultError(f *Fault) error {
	if !strings.HasSuffix(f.Code, "Client") {
		return f
	}
	switch {
	case f.Detail != nil && len(f.Detail.Violations) > 0:
		return &services.ValidationError{Violations: f.Detail.Violations}
	case f.Detail != nil && f.Detail.ProductID != 0:
		return &services.NotFoundError{ID: f.Detail.ProductID}
	case f.String == services.ErrDuplicateName.Error():
		return services.ErrDuplicateName
	}
	return f
}
