package soap_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inventory/internal/repositories"
	"inventory/internal/services"
	"inventory/internal/soap"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupSOAPApp(opts ...services.ProductServiceOption) *fiber.App {
	productService := services.NewProductService(repositories.NewMockProductRepository(), opts...)
	app := fiber.New()
	soap.NewService(productService, zap.NewNop()).RegisterRoutes(app)
	return app
}

func envelope(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		`<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:tns="inventory.soap">` +
		`<soapenv:Header/><soapenv:Body>` + body + `</soapenv:Body></soapenv:Envelope>`
}

func post(t *testing.T, app *fiber.App, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestSOAPCreateAndGetProduct(t *testing.T) {
	app := setupSOAPApp()

	code, body := post(t, app, envelope(
		`<tns:CreateProduct><tns:name>Mouse</tns:name><tns:quantity>5</tns:quantity><tns:price>19.99</tns:price></tns:CreateProduct>`))
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "CreateProductResponse")
	assert.Contains(t, body, "<id>1</id>")
	assert.Contains(t, body, "<name>Mouse</name>")

	code, body = post(t, app, envelope(`<tns:GetProduct><tns:product_id>1</tns:product_id></tns:GetProduct>`))
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<quantity>5</quantity>")
	assert.Contains(t, body, "<price>19.99</price>")
}

func TestSOAPUnprefixedPayload(t *testing.T) {
	app := setupSOAPApp()

	code, body := post(t, app, envelope(`<GetAllProducts/>`))
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "GetAllProductsResponse")
}

func TestSOAPValidationFault(t *testing.T) {
	app := setupSOAPApp()

	code, body := post(t, app, envelope(
		`<tns:CreateProduct><tns:name>  </tns:name><tns:quantity>-1</tns:quantity><tns:price>-5</tns:price></tns:CreateProduct>`))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body, "<faultcode>soap:Client</faultcode>")
	assert.Contains(t, body, "<violation>Name cannot be empty</violation>")
	assert.Contains(t, body, "<violation>Quantity cannot be negative</violation>")
	assert.Contains(t, body, "<violation>Price cannot be negative</violation>")

	_, body = post(t, app, envelope(`<tns:GetAllProducts/>`))
	assert.NotContains(t, body, "<product>")
}

func TestSOAPCreateRequiresEveryField(t *testing.T) {
	app := setupSOAPApp()

	code, body := post(t, app, envelope(`<tns:CreateProduct><tns:name>Widget</tns:name></tns:CreateProduct>`))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body, "<faultcode>soap:Client</faultcode>")
	assert.Contains(t, body, "<violation>Quantity is required</violation>")
	assert.Contains(t, body, "<violation>Price is required</violation>")
	assert.NotContains(t, body, "Name is required")

	code, body = post(t, app, envelope(`<tns:CreateProduct><tns:price>-1</tns:price></tns:CreateProduct>`))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body, "<violation>Name is required</violation>")
	assert.Contains(t, body, "<violation>Quantity is required</violation>")
	assert.Contains(t, body, "<violation>Price cannot be negative</violation>")

	_, body = post(t, app, envelope(`<tns:GetAllProducts/>`))
	assert.NotContains(t, body, "<product>")
}

func TestSOAPRejectsNonFinitePrice(t *testing.T) {
	app := setupSOAPApp()

	for _, price := range []string{"INF", "-INF", "NaN"} {
		t.Run(price, func(t *testing.T) {
			code, body := post(t, app, envelope(
				`<tns:CreateProduct><tns:name>Widget</tns:name><tns:quantity>1</tns:quantity><tns:price>`+price+`</tns:price></tns:CreateProduct>`))
			assert.Equal(t, http.StatusInternalServerError, code)
			assert.Contains(t, body, "<violation>Price must be a finite number</violation>")
		})
	}

	code, body := post(t, app, envelope(
		`<tns:CreateProduct><tns:name>Widget</tns:name><tns:quantity>1</tns:quantity><tns:price>2</tns:price></tns:CreateProduct>`))
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<id>1</id>")

	code, body = post(t, app, envelope(
		`<tns:UpdateProduct><tns:product_id>1</tns:product_id><tns:price>INF</tns:price></tns:UpdateProduct>`))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body, "<violation>Price must be a finite number</violation>")

	_, body = post(t, app, envelope(`<tns:GetProduct><tns:product_id>1</tns:product_id></tns:GetProduct>`))
	assert.Contains(t, body, "<price>2</price>")
}

func TestSOAPNotFoundFault(t *testing.T) {
	app := setupSOAPApp()

	code, body := post(t, app, envelope(`<tns:DeleteProduct><tns:product_id>42</tns:product_id></tns:DeleteProduct>`))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body, "<faultcode>soap:Client</faultcode>")
	assert.Contains(t, body, "product with ID 42 not found")
	assert.Contains(t, body, "<product_id>42</product_id>")
}

func TestSOAPPartialUpdate(t *testing.T) {
	app := setupSOAPApp()

	post(t, app, envelope(
		`<tns:CreateProduct><tns:name>Mouse</tns:name><tns:quantity>5</tns:quantity><tns:price>19.99</tns:price></tns:CreateProduct>`))

	code, body := post(t, app, envelope(
		`<tns:UpdateProduct><tns:product_id>1</tns:product_id><tns:quantity>7</tns:quantity></tns:UpdateProduct>`))
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<name>Mouse</name>")
	assert.Contains(t, body, "<quantity>7</quantity>")
	assert.Contains(t, body, "<price>19.99</price>")
}

func TestSOAPDuplicateNameFault(t *testing.T) {
	app := setupSOAPApp(services.WithUniqueNames(true))
	create := envelope(
		`<tns:CreateProduct><tns:name>Mouse</tns:name><tns:quantity>1</tns:quantity><tns:price>1</tns:price></tns:CreateProduct>`)

	code, _ := post(t, app, create)
	require.Equal(t, http.StatusOK, code)

	code, body := post(t, app, create)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body, services.ErrDuplicateName.Error())
}

func TestSOAPMalformedRequests(t *testing.T) {
	app := setupSOAPApp()

	tests := []struct {
		name string
		body string
	}{
		{"not xml", "hello"},
		{"not an envelope", `<GetAllProducts xmlns="inventory.soap"/>`},
		{"empty body", envelope("")},
		{"unknown operation", envelope(`<tns:Restock/>`)},
		{"bad field", envelope(`<tns:GetProduct><tns:product_id>abc</tns:product_id></tns:GetProduct>`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := post(t, app, tt.body)
			assert.Equal(t, http.StatusInternalServerError, code)
			assert.Contains(t, body, "<faultcode>soap:Client</faultcode>")
		})
	}
}

func TestSOAPWSDL(t *testing.T) {
	app := setupSOAPApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "http://example.com/?wsdl", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := string(b)
	assert.Contains(t, body, `targetNamespace="inventory.soap"`)
	assert.Contains(t, body, `soapAction="UpdateProduct"`)
	assert.Contains(t, body, `location="http://example.com/"`)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
