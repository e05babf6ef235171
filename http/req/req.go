package req

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"reflect"

	v10 "github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/xy-planning-network/wayfarer"
)

// maxBodyBytes caps how much of a request body Parse reads.
const maxBodyBytes = 1 << 20

// A Parser decodes request payloads into structs and validates them.
type Parser struct {
	decoder   *schema.Decoder
	validator *v10.Validate
}

// NewParser constructs a *Parser.
func NewParser() *Parser {
	return &Parser{
		decoder:   newDecoder(),
		validator: newValidate(),
	}
}

// Parse decodes the payload of r into structPtr according to its Content-Type:
// JSON bodies through ParseBody, everything else through ParseForm.
func (p *Parser) Parse(r *http.Request, structPtr any) error {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/json" {
		return p.ParseBody(http.MaxBytesReader(nil, r.Body, maxBodyBytes), structPtr)
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("wayfarer/http/req: %w: failed parsing form: %s", wayfarer.ErrBadFormat, err)
	}

	return p.ParseForm(r.PostForm, structPtr)
}

// ParseBody decodes into a pointer to a struct the JSON data in body.
// If successful, ParseBody runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
//
// ParseBody reads the entire body and can't be read from again.
// Use a [io.TeeReader] if body needs to be reused after calling ParseBody.
func (p *Parser) ParseBody(body io.Reader, structPtr any) error {
	var ourFault *json.InvalidUnmarshalError
	err := json.NewDecoder(body).Decode(structPtr)
	if errors.As(err, &ourFault) {
		return fmt.Errorf("wayfarer/http/req: %w: ParseBody called with non-pointer: %s", wayfarer.ErrBadAny, err)
	}

	if err != nil {
		return fmt.Errorf("wayfarer/http/req: %w: failed decoding request body: %s", wayfarer.ErrBadFormat, err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("wayfarer/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}

// ParseForm decodes into a pointer to a struct the form data in vals.
// If successful, ParseForm runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
func (p *Parser) ParseForm(vals url.Values, structPtr any) error {
	if err := checkStructPtr(structPtr); err != nil {
		return err
	}

	if err := p.decoder.Decode(structPtr, vals); err != nil {
		if err = translateDecoderError(err); err != nil {
			return fmt.Errorf("wayfarer/http/req: failed decoding request: %w", err)
		}
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("wayfarer/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}

// ParseQueryParams decodes into a pointer to a struct the query param data in params.
// If successful, ParseQueryParams runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
func (p *Parser) ParseQueryParams(params url.Values, structPtr any) error {
	return p.ParseForm(params, structPtr)
}

func checkStructPtr(structPtr any) error {
	v := reflect.ValueOf(structPtr)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("wayfarer/http/req: %w: expected pointer to struct, got %T", wayfarer.ErrBadAny, structPtr)
	}

	return nil
}
