// Package endpoint maps logical service names and actions onto HTTP methods
// and path templates, and binds them to a request executor.
package endpoint

import (
	"fmt"

	cardpointe "github.com/DanielPopoola/cardpointe-go"
	"github.com/DanielPopoola/cardpointe-go/payload"
)

// Route is one action of a service.
//
// Path is a template relative to the host. {site} and {merchid} come from the
// credentials, any other {name} is taken out of the payload. {name?} may be
// empty; a trailing "/" left behind is trimmed.
type Route struct {
	Method string
	Path   string

	// Prepare may rewrite the payload before path variables are extracted.
	Prepare func(p payload.Payload) (payload.Payload, error)

	// Check inspects a 2xx response when response checks are enabled. It
	// reports true with the upstream message when the response is a decline.
	Check func(resp *cardpointe.Response) (string, bool)
}

type Descriptor struct {
	Name   string
	Routes map[cardpointe.Action]Route
}

// Registry is a fixed set of descriptors. It is built once and only read
// afterwards.
type Registry struct {
	injectMerchant bool
	descriptors    map[string]Descriptor
	names          []string
}

// NewRegistry panics on a duplicate or empty descriptor since registries are
// package level constants.
func NewRegistry(injectMerchant bool, descriptors ...Descriptor) *Registry {
	r := &Registry{
		injectMerchant: injectMerchant,
		descriptors:    make(map[string]Descriptor, len(descriptors)),
	}
	for _, d := range descriptors {
		if _, exists := r.descriptors[d.Name]; exists {
			panic(fmt.Sprintf("endpoint: duplicate service %q", d.Name))
		}
		if len(d.Routes) == 0 {
			panic(fmt.Sprintf("endpoint: service %q has no routes", d.Name))
		}
		r.descriptors[d.Name] = d
		r.names = append(r.names, d.Name)
	}
	return r
}

func (r *Registry) Resolve(service string, action cardpointe.Action) (Route, error) {
	d, ok := r.descriptors[service]
	if !ok {
		return Route{}, &cardpointe.UnsupportedOperationError{Service: service, Action: action}
	}
	route, ok := d.Routes[action]
	if !ok {
		return Route{}, &cardpointe.UnsupportedOperationError{Service: service, Action: action}
	}
	return route, nil
}

func (r *Registry) Has(service string) bool {
	_, ok := r.descriptors[service]
	return ok
}

// Names lists services in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Actions lists the actions a service supports in canonical order.
func (r *Registry) Actions(service string) []cardpointe.Action {
	d, ok := r.descriptors[service]
	if !ok {
		return nil
	}
	var out []cardpointe.Action
	for _, a := range cardpointe.Actions {
		if _, ok := d.Routes[a]; ok {
			out = append(out, a)
		}
	}
	return out
}

func (r *Registry) InjectsMerchant() bool {
	return r.injectMerchant
}
