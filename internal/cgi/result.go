package cgi

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// ResultCode is the value of the <result> element in every CGI response.
type ResultCode int

const (
	ResultOK             ResultCode = 0
	ResultBadRequest     ResultCode = -1
	ResultBadCredentials ResultCode = -2
	ResultAccessDenied   ResultCode = -3
	ResultExecFailed     ResultCode = -4
	ResultTimeout        ResultCode = -5
	ResultReserved       ResultCode = -6
	ResultUnknown        ResultCode = -7
)

// String returns the device's description of the code.
func (c ResultCode) String() string {
	switch c {
	case ResultOK:
		return "success"
	case ResultBadRequest:
		return "CGI request string format error"
	case ResultBadCredentials:
		return "username or password error"
	case ResultAccessDenied:
		return "access denied"
	case ResultExecFailed:
		return "CGI execute failure"
	case ResultTimeout:
		return "device timeout"
	case ResultReserved:
		return "reserved"
	case ResultUnknown:
		return "unknown error"
	default:
		return fmt.Sprintf("result code %d", int(c))
	}
}

// Result is a decoded <CGI_Result> document. The document is flat: every
// child of the root is a key with a text value.
type Result struct {
	// Command is the cmd that produced this result
	Command string

	// Raw is the response body as received
	Raw []byte

	fields map[string]string
	keys   []string
}

type xmlDocument struct {
	XMLName xml.Name   `xml:"CGI_Result"`
	Fields  []xmlField `xml:",any"`
}

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// ParseResult decodes body as a CGI_Result document. The <result> element
// is required; a document without it is a parse error.
func ParseResult(command string, body []byte) (*Result, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(bytes.TrimSpace(body), &doc); err != nil {
		return nil, NewParseError(command, "response is not a CGI_Result document", err)
	}

	r := &Result{
		Command: command,
		Raw:     body,
		fields:  make(map[string]string, len(doc.Fields)),
	}
	for _, f := range doc.Fields {
		name := f.XMLName.Local
		if _, seen := r.fields[name]; !seen {
			r.keys = append(r.keys, name)
		}
		r.fields[name] = strings.TrimSpace(f.Value)
	}

	if _, err := r.Int("result"); err != nil {
		return nil, NewParseError(command, "response has no usable <result> element", err)
	}
	return r, nil
}

// Code returns the device result code.
func (r *Result) Code() ResultCode {
	v, _ := r.Int("result")
	return ResultCode(v)
}

// OK reports whether the device accepted the command.
func (r *Result) OK() bool {
	return r.Code() == ResultOK
}

// Get returns the text of a field and whether it was present.
func (r *Result) Get(key string) (string, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Int returns a field parsed as an integer.
func (r *Result) Int(key string) (int, error) {
	v, ok := r.fields[key]
	if !ok {
		return 0, fmt.Errorf("field %q missing", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return n, nil
}

// Uint returns a field parsed as an unsigned integer.
func (r *Result) Uint(key string) (uint64, error) {
	v, ok := r.fields[key]
	if !ok {
		return 0, fmt.Errorf("field %q missing", key)
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", key, err)
	}
	return n, nil
}

// Bool returns a 0/1 field as a bool.
func (r *Result) Bool(key string) (bool, error) {
	n, err := r.Int(key)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// Keys returns the field names in document order.
func (r *Result) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Fields returns a copy of all fields.
func (r *Result) Fields() map[string]string {
	out := make(map[string]string, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}
