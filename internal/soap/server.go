package soap

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"

	"inventory/internal/models"
	"inventory/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// requestError is a malformed or unknown call. It is answered with a client fault.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

// Service exposes the product operations as a document/literal SOAP endpoint.
type Service struct {
	products *services.ProductService
	log      *zap.Logger
}

// NewService creates a new SOAP Service.
func NewService(products *services.ProductService, log *zap.Logger) *Service {
	return &Service{
		products: products,
		log:      log,
	}
}

// RegisterRoutes mounts the endpoint at the root of router. The WSDL is served at GET /?wsdl.
func (s *Service) RegisterRoutes(router fiber.Router) {
	router.Get("/", s.HandleWSDL)
	router.Post("/", s.HandleCall)
}

// HandleWSDL returns the service description.
func (s *Service) HandleWSDL(c *fiber.Ctx) error {
	if !c.Context().QueryArgs().Has("wsdl") {
		return c.Status(fiber.StatusBadRequest).SendString("Append ?wsdl to fetch the service description")
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.SendString(WSDL(c.BaseURL() + c.Path()))
}

// HandleCall decodes one SOAP request, runs it and writes the response envelope.
func (s *Service) HandleCall(c *fiber.Ctx) error {
	d, start, err := openBody(bytes.NewReader(c.Body()))
	if err != nil {
		return s.respondFault(c, &requestError{msg: err.Error()})
	}

	payload, err := s.dispatch(c.UserContext(), d, start)
	if err != nil {
		return s.respondFault(c, err)
	}

	body, err := marshalEnvelope(payload, nil)
	if err != nil {
		s.log.Error("failed to encode SOAP response", zap.String("operation", start.Name.Local), zap.Error(err))
		return s.respondFault(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(body)
}

func (s *Service) dispatch(ctx context.Context, d *xml.Decoder, start xml.StartElement) (interface{}, error) {
	if start.Name.Space != Namespace && start.Name.Space != "" {
		return nil, &requestError{msg: fmt.Sprintf("unknown namespace %q", start.Name.Space)}
	}
	start.Name.Space = Namespace

	switch start.Name.Local {
	case "GetProduct":
		var req GetProduct
		if err := decodeRequest(d, &start, &req); err != nil {
			return nil, err
		}
		product, err := s.products.GetProductByID(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
		return &GetProductResponse{Product: productFromModel(*product)}, nil

	case "GetAllProducts":
		var req GetAllProducts
		if err := decodeRequest(d, &start, &req); err != nil {
			return nil, err
		}
		products, err := s.products.GetAllProducts(ctx)
		if err != nil {
			return nil, err
		}
		resp := &GetAllProductsResponse{Products: make([]Product, 0, len(products))}
		for _, p := range products {
			resp.Products = append(resp.Products, productFromModel(p))
		}
		return resp, nil

	case "CreateProduct":
		var req CreateProduct
		if err := decodeRequest(d, &start, &req); err != nil {
			return nil, err
		}
		input, err := s.products.CompleteInput(models.ProductUpdate{
			Name:     req.Name,
			Quantity: req.Quantity,
			Price:    req.Price,
		})
		if err != nil {
			return nil, err
		}
		product, err := s.products.CreateProduct(ctx, input)
		if err != nil {
			return nil, err
		}
		return &CreateProductResponse{Product: productFromModel(*product)}, nil

	case "UpdateProduct":
		var req UpdateProduct
		if err := decodeRequest(d, &start, &req); err != nil {
			return nil, err
		}
		product, err := s.products.UpdateProduct(ctx, req.ProductID, models.ProductUpdate{
			Name:     req.Name,
			Quantity: req.Quantity,
			Price:    req.Price,
		})
		if err != nil {
			return nil, err
		}
		return &UpdateProductResponse{Product: productFromModel(*product)}, nil

	case "DeleteProduct":
		var req DeleteProduct
		if err := decodeRequest(d, &start, &req); err != nil {
			return nil, err
		}
		if err := s.products.DeleteProduct(ctx, req.ProductID); err != nil {
			return nil, err
		}
		return &DeleteProductResponse{
			Message: fmt.Sprintf("Product %d deleted successfully", req.ProductID),
		}, nil
	}

	return nil, &requestError{msg: fmt.Sprintf("unknown operation %q", start.Name.Local)}
}

func decodeRequest(d *xml.Decoder, start *xml.StartElement, v interface{}) error {
	if err := d.DecodeElement(v, start); err != nil {
		return &requestError{msg: fmt.Sprintf("invalid %s request: %v", start.Name.Local, err)}
	}
	return nil
}

// respondFault writes err as a SOAP fault with HTTP 500, as SOAP 1.1 requires.
func (s *Service) respondFault(c *fiber.Ctx, err error) error {
	fault := s.toFault(c, err)
	body, mErr := marshalEnvelope(nil, fault)
	if mErr != nil {
		return mErr
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Status(fiber.StatusInternalServerError).Send(body)
}

func (s *Service) toFault(c *fiber.Ctx, err error) *outFault {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var reqErr *requestError

	switch {
	case errors.As(err, &validationErr):
		return &outFault{
			Code:   FaultClient,
			String: "Validation failed",
			Detail: &FaultDetail{Violations: validationErr.Violations},
		}
	case errors.As(err, &notFoundErr):
		return &outFault{
			Code:   FaultClient,
			String: notFoundErr.Error(),
			Detail: &FaultDetail{ProductID: notFoundErr.ID},
		}
	case errors.Is(err, services.ErrDuplicateName):
		return &outFault{Code: FaultClient, String: err.Error()}
	case errors.As(err, &reqErr):
		return &outFault{Code: FaultClient, String: reqErr.msg}
	default:
		s.log.Error("SOAP call failed", zap.String("path", c.Path()), zap.Error(err))
		return &outFault{Code: FaultServer, String: "Internal error: " + err.Error()}
	}
}
