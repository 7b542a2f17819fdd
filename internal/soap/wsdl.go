package soap

import (
	"encoding/xml"
	"strings"
)

// wsdlTemplate describes the service in document/literal style. {{ADDRESS}}
// is replaced with the endpoint URL the document was requested from.
const wsdlTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<wsdl:definitions xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/"
    xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/"
    xmlns:xs="http://www.w3.org/2001/XMLSchema"
    xmlns:tns="inventory.soap"
    targetNamespace="inventory.soap"
    name="Application">
  <wsdl:types>
    <xs:schema targetNamespace="inventory.soap" elementFormDefault="qualified">
      <xs:complexType name="Product">
        <xs:sequence>
          <xs:element name="id" type="xs:unsignedInt"/>
          <xs:element name="name" type="xs:string"/>
          <xs:element name="quantity" type="xs:int"/>
          <xs:element name="price" type="xs:double"/>
        </xs:sequence>
      </xs:complexType>
      <xs:complexType name="ProductArray">
        <xs:sequence>
          <xs:element name="product" type="tns:Product" minOccurs="0" maxOccurs="unbounded"/>
        </xs:sequence>
      </xs:complexType>
      <xs:complexType name="FaultDetail">
        <xs:sequence>
          <xs:element name="violation" type="xs:string" minOccurs="0" maxOccurs="unbounded"/>
          <xs:element name="product_id" type="xs:unsignedInt" minOccurs="0"/>
        </xs:sequence>
      </xs:complexType>
      <xs:element name="GetProduct">
        <xs:complexType><xs:sequence>
          <xs:element name="product_id" type="xs:unsignedInt"/>
        </xs:sequence></xs:complexType>
      </xs:element>
      <xs:element name="GetProductResponse">
        <xs:complexType><xs:sequence>
          <xs:element name="product" type="tns:Product"/>
        </xs:sequence></xs:complexType>
      </xs:element>
      <xs:element name="GetAllProducts">
        <xs:complexType><xs:sequence/></xs:complexType>
      </xs:element>
      <xs:element name="GetAllProductsResponse">
        <xs:complexType><xs:sequence>
          <xs:element name="products" type="tns:ProductArray"/>
        </xs:sequence></xs:complexType>
      </xs:element>
      <xs:element name="CreateProduct">
        <xs:complexType><xs:sequence>
          <xs:element name="name" type="xs:string"/>
          <xs:element name="quantity" type="xs:int"/>
          <xs:element name="price" type="xs:double"/>
        </xs:sequence></xs:complexType>
      </xs:element>
      <xs:element name="CreateProductResponse">
        <xs:complexType><xs:sequence>
          <xs:element name="product" type="tns:Product"/>
        </xs:sequence></xs:complexType>
      </xs:element>
      <xs:element name="UpdateProduct">
        <xs:complexType><xs:sequence>
          <xs:element name="product_id" type="xs:unsignedInt"/>
          <xs:element name="name" type="xs:string" minOccurs="0"/>
          <xs:element name="quantity" type="xs:int" minOccurs="0"/>
          <xs:element name="price" type="xs:double" minOccurs="0"/>
        </xs:sequence></xs:complexType>
      </xs:element>
      <xs:element name="UpdateProductResponse">
        <xs:complexType><xs:sequence>
          <xs:element name="product" type="tns:Product"/>
        </xs:sequence></xs:complexType>
      </xs:element>
      <xs:element name="DeleteProduct">
        <xs:complexType><xs:sequence>
          <xs:element name="product_id" type="xs:unsignedInt"/>
        </xs:sequence></xs:complexType>
      </xs:element>
      <xs:element name="DeleteProductResponse">
        <xs:complexType><xs:sequence>
          <xs:element name="message" type="xs:string"/>
        </xs:sequence></xs:complexType>
      </xs:element>
    </xs:schema>
  </wsdl:types>
{{MESSAGES}}
  <wsdl:portType name="InventorySOAPService">
{{OPERATIONS}}
  </wsdl:portType>
  <wsdl:binding name="InventorySOAPService" type="tns:InventorySOAPService">
    <soap:binding style="document" transport="http://schemas.xmlsoap.org/soap/http"/>
{{BINDINGS}}
  </wsdl:binding>
  <wsdl:service name="InventorySOAPService">
    <wsdl:port name="Application" binding="tns:InventorySOAPService">
      <soap:address location="{{ADDRESS}}"/>
    </wsdl:port>
  </wsdl:service>
</wsdl:definitions>
`

// operations lists every SOAP operation in WSDL order.
var operations = []string{"GetProduct", "GetAllProducts", "CreateProduct", "UpdateProduct", "DeleteProduct"}

// WSDL renders the service description for the given endpoint address.
func WSDL(address string) string {
	var messages, ops, bindings, addr strings.Builder
	// Writing to a strings.Builder cannot fail.
	_ = xml.EscapeText(&addr, []byte(address))

	for _, op := range operations {
		messages.WriteString(`  <wsdl:message name="` + op + `"><wsdl:part name="` + op + `" element="tns:` + op + `"/></wsdl:message>` + "\n")
		messages.WriteString(`  <wsdl:message name="` + op + `Response"><wsdl:part name="` + op + `Response" element="tns:` + op + `Response"/></wsdl:message>` + "\n")

		ops.WriteString(`    <wsdl:operation name="` + op + `">` +
			`<wsdl:input name="` + op + `" message="tns:` + op + `"/>` +
			`<wsdl:output name="` + op + `Response" message="tns:` + op + `Response"/>` +
			`</wsdl:operation>` + "\n")

		bindings.WriteString(`    <wsdl:operation name="` + op + `">` +
			`<soap:operation soapAction="` + op + `" style="document"/>` +
			`<wsdl:input name="` + op + `"><soap:body use="literal"/></wsdl:input>` +
			`<wsdl:output name="` + op + `Response"><soap:body use="literal"/></wsdl:output>` +
			`</wsdl:operation>` + "\n")
	}

	return strings.NewReplacer(
		"{{MESSAGES}}", strings.TrimRight(messages.String(), "\n"),
		"{{OPERATIONS}}", strings.TrimRight(ops.String(), "\n"),
		"{{BINDINGS}}", strings.TrimRight(bindings.String(), "\n"),
		"{{ADDRESS}}", addr.String(),
	).Replace(wsdlTemplate)
}
