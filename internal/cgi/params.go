package cgi

import (
	"net/url"
	"strconv"
)

type param struct {
	key   string
	value string
}

// Params is an immutable, ordered set of command parameters.
// Every With* call returns a new Params and leaves the receiver untouched,
// so a Params value can be shared between requests and goroutines.
//
// Example usage:
//
//	base := cgi.NewParams().WithBool("isEnable", true)
//	a := base.WithInt("recordLevel", 4)
//	b := base.WithInt("recordLevel", 2) // a is unaffected
type Params struct {
	pairs []param
}

// NewParams returns an empty parameter set.
func NewParams() Params {
	return Params{}
}

// With returns a copy of p with key set to value, replacing any earlier value.
func (p Params) With(key, value string) Params {
	pairs := make([]param, 0, len(p.pairs)+1)
	replaced := false
	for _, kv := range p.pairs {
		if kv.key == key {
			pairs = append(pairs, param{key: key, value: value})
			replaced = true
			continue
		}
		pairs = append(pairs, kv)
	}
	if !replaced {
		pairs = append(pairs, param{key: key, value: value})
	}
	return Params{pairs: pairs}
}

// WithInt sets an integer parameter.
func (p Params) WithInt(key string, value int) Params {
	return p.With(key, strconv.Itoa(value))
}

// WithUint sets an unsigned parameter such as a schedule bitmask.
func (p Params) WithUint(key string, value uint64) Params {
	return p.With(key, strconv.FormatUint(value, 10))
}

// WithBool sets a flag parameter; the device expects 1 or 0.
func (p Params) WithBool(key string, value bool) Params {
	if value {
		return p.With(key, "1")
	}
	return p.With(key, "0")
}

// Get returns the value stored for key.
func (p Params) Get(key string) (string, bool) {
	for _, kv := range p.pairs {
		if kv.key == key {
			return kv.value, true
		}
	}
	return "", false
}

// Len returns the number of parameters.
func (p Params) Len() int {
	return len(p.pairs)
}

// Keys returns the parameter names in insertion order.
func (p Params) Keys() []string {
	keys := make([]string, len(p.pairs))
	for i, kv := range p.pairs {
		keys[i] = kv.key
	}
	return keys
}

// Values returns a fresh url.Values holding the parameters.
func (p Params) Values() url.Values {
	v := make(url.Values, len(p.pairs))
	for _, kv := range p.pairs {
		v.Set(kv.key, kv.value)
	}
	return v
}
