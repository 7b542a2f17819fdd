package soap

import (
	"encoding/xml"

	"inventory/internal/models"
)

const (
	// Namespace is the target namespace of the inventory service.
	Namespace = "inventory.soap"
	// EnvelopeNamespace is the SOAP 1.1 envelope namespace.
	EnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"

	contentType = "text/xml; charset=utf-8"
)

// Fault codes used by the service.
const (
	FaultClient = "soap:Client"
	FaultServer = "soap:Server"
)

// Product is the wire form of models.Product.
type Product struct {
	ID       uint    `xml:"id"`
	Name     string  `xml:"name"`
	Quantity int     `xml:"quantity"`
	Price    float64 `xml:"price"`
}

func productFromModel(p models.Product) Product {
	return Product{ID: p.ID, Name: p.Name, Quantity: p.Quantity, Price: p.Price}
}

func (p Product) toModel() models.Product {
	return models.Product{ID: p.ID, Name: p.Name, Quantity: p.Quantity, Price: p.Price}
}

type GetProduct struct {
	XMLName   xml.Name `xml:"inventory.soap GetProduct"`
	ProductID uint     `xml:"product_id"`
}

type GetProductResponse struct {
	XMLName xml.Name `xml:"inventory.soap GetProductResponse"`
	Product Product  `xml:"product"`
}

type GetAllProducts struct {
	XMLName xml.Name `xml:"inventory.soap GetAllProducts"`
}

type GetAllProductsResponse struct {
	XMLName  xml.Name  `xml:"inventory.soap GetAllProductsResponse"`
	Products []Product `xml:"products>product"`
}

// CreateProduct needs every element; pointers tell an absent one from a zero.
type CreateProduct struct {
	XMLName  xml.Name `xml:"inventory.soap CreateProduct"`
	Name     *string  `xml:"name"`
	Quantity *int     `xml:"quantity"`
	Price    *float64 `xml:"price"`
}

type CreateProductResponse struct {
	XMLName xml.Name `xml:"inventory.soap CreateProductResponse"`
	Product Product  `xml:"product"`
}

// UpdateProduct leaves out the elements that should keep their stored value.
type UpdateProduct struct {
	XMLName   xml.Name `xml:"inventory.soap UpdateProduct"`
	ProductID uint     `xml:"product_id"`
	Name      *string  `xml:"name,omitempty"`
	Quantity  *int     `xml:"quantity,omitempty"`
	Price     *float64 `xml:"price,omitempty"`
}

type UpdateProductResponse struct {
	XMLName xml.Name `xml:"inventory.soap UpdateProductResponse"`
	Product Product  `xml:"product"`
}

type DeleteProduct struct {
	XMLName   xml.Name `xml:"inventory.soap DeleteProduct"`
	ProductID uint     `xml:"product_id"`
}

type DeleteProductResponse struct {
	XMLName xml.Name `xml:"inventory.soap DeleteProductResponse"`
	Message string   `xml:"message"`
}

// FaultDetail carries the structured cause of a client fault.
type FaultDetail struct {
	Violations []string `xml:"violation,omitempty"`
	ProductID  uint     `xml:"product_id,omitempty"`
}

// Fault is a decoded SOAP 1.1 fault. It implements error.
type Fault struct {
	Code   string       `xml:"faultcode"`
	String string       `xml:"faultstring"`
	Detail *FaultDetail `xml:"detail"`
}

func (f *Fault) Error() string {
	return f.Code + ": " + f.String
}

// outEnvelope is written with an explicit soap prefix so fault children stay unqualified.
type outEnvelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	SoapNS  string   `xml:"xmlns:soap,attr"`
	Body    outBody  `xml:"soap:Body"`
}

type outBody struct {
	Fault   *outFault
	Payload interface{}
}

type outFault struct {
	XMLName xml.Name     `xml:"soap:Fault"`
	Code    string       `xml:"faultcode"`
	String  string       `xml:"faultstring"`
	Detail  *FaultDetail `xml:"detail,omitempty"`
}

func marshalEnvelope(payload interface{}, fault *outFault) ([]byte, error) {
	env := outEnvelope{
		SoapNS: EnvelopeNamespace,
		Body:   outBody{Fault: fault, Payload: payload},
	}
	body, err := xml.Marshal(env)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
