package mei

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/sha3"
)

// MediaType is the media type of an MEI document.
const MediaType = "application/mei+xml"

// dataURIPrefix precedes the base64 payload of every annotation body.
const dataURIPrefix = "data:" + MediaType + ";base64,"

var (
	// ErrNotMEIDataURI is returned when a URI is not a base64 MEI data URI.
	ErrNotMEIDataURI = errors.New("not a base64 MEI data URI")

	// ErrMalformed is returned when a document is not well-formed XML.
	ErrMalformed = errors.New("MEI document is not well-formed")
)

// DataURI encodes doc's UTF-8 bytes with standard base64.
func DataURI(doc string) string {
	return dataURIPrefix + base64.StdEncoding.EncodeToString([]byte(doc))
}

// DecodeDataURI returns the document carried by a URI produced by DataURI.
func DecodeDataURI(uri string) (string, error) {
	payload, ok := strings.CutPrefix(uri, dataURIPrefix)
	if !ok {
		return "", ErrNotMEIDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotMEIDataURI, err)
	}
	return string(data), nil
}

// CheckWellFormed tokenizes doc and reports the first syntax error.
// It does not validate against the MEI schema.
func CheckWellFormed(doc string) error {
	dec := xml.NewDecoder(strings.NewReader(doc))
	dec.Strict = true

	depth, roots := 0, 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		switch tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return fmt.Errorf("%w: multiple root elements", ErrMalformed)
				}
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	if roots == 0 {
		return fmt.Errorf("%w: no root element", ErrMalformed)
	}
	return nil
}

// Digest returns the first 12 hex digits of the SHA3-256 of doc. Reports use
// it to tell documents apart without printing them.
func Digest(doc string) string {
	sum := sha3.Sum256([]byte(doc))
	return hex.EncodeToString(sum[:6])
}
