package soap

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

var errEmptyBody = errors.New("SOAP body is empty")

// openBody reads r up to the first element inside the envelope's Body and
// returns the decoder positioned on it. Headers are skipped. The decoder keeps
// the namespace declarations of the envelope, so payloads whose prefixes are
// declared on the Envelope element resolve correctly.
func openBody(r io.Reader) (*xml.Decoder, xml.StartElement, error) {
	d := xml.NewDecoder(r)
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, xml.StartElement{}, fmt.Errorf("malformed SOAP envelope: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch depth {
			case 0:
				if t.Name.Space != EnvelopeNamespace || t.Name.Local != "Envelope" {
					return nil, xml.StartElement{}, fmt.Errorf("expected SOAP Envelope, got <%s>", t.Name.Local)
				}
				depth = 1
			case 1:
				if t.Name.Space == EnvelopeNamespace && t.Name.Local == "Body" {
					depth = 2
					continue
				}
				if err := d.Skip(); err != nil {
					return nil, xml.StartElement{}, fmt.Errorf("malformed SOAP envelope: %w", err)
				}
			default:
				return d, t, nil
			}
		case xml.EndElement:
			if depth == 2 {
				return nil, xml.StartElement{}, errEmptyBody
			}
		}
	}
}

func isFault(start xml.StartElement) bool {
	return start.Name.Space == EnvelopeNamespace && start.Name.Local == "Fault"
}
