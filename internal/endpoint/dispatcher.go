package endpoint

import (
	"context"
	"net/url"
	"strings"

	cardpointe "github.com/DanielPopoola/cardpointe-go"
	"github.com/DanielPopoola/cardpointe-go/internal/transport"
	"github.com/DanielPopoola/cardpointe-go/payload"
)

const merchantField = "merchid"

// Executor is the part of transport.Executor the dispatcher needs.
type Executor interface {
	Execute(ctx context.Context, req transport.Request) (*cardpointe.Response, error)
}

// Dispatcher binds a registry to one set of credentials and one host.
type Dispatcher struct {
	registry       *Registry
	executor       Executor
	creds          cardpointe.Credentials
	host           string
	checkResponses bool
}

func NewDispatcher(registry *Registry, creds cardpointe.Credentials, executor Executor, host string, checkResponses bool) *Dispatcher {
	return &Dispatcher{
		registry:       registry,
		executor:       executor,
		creds:          creds,
		host:           strings.TrimRight(host, "/"),
		checkResponses: checkResponses,
	}
}

func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Build resolves the route and produces the request without sending it.
// The same inputs always produce the same request.
func (d *Dispatcher) Build(service string, action cardpointe.Action, p payload.Payload) (transport.Request, Route, error) {
	route, err := d.registry.Resolve(service, action)
	if err != nil {
		return transport.Request{}, Route{}, err
	}

	fields := p.Clone()
	if route.Prepare != nil {
		fields, err = route.Prepare(fields)
		if err != nil {
			return transport.Request{}, Route{}, scope(err, service, action)
		}
	}

	host, err := expand(d.host, func(ph placeholder) (string, error) {
		if ph.name == "site" {
			return d.creds.Site, nil
		}
		return "", &cardpointe.ValidationError{Field: ph.name, Message: "unknown host placeholder"}
	})
	if err != nil {
		return transport.Request{}, Route{}, scope(err, service, action)
	}

	path, err := expand(route.Path, func(ph placeholder) (string, error) {
		switch ph.name {
		case merchantField:
			return url.PathEscape(d.creds.MerchantID), nil
		case "site":
			return url.PathEscape(d.creds.Site), nil
		}

		value, ok := fields.GetString(ph.name)
		if raw, present := fields.Get(ph.name); present && raw != nil && !ok {
			return "", &cardpointe.ValidationError{Field: ph.name, Message: "path variable must be a scalar"}
		}
		fields.Delete(ph.name)
		if value == "" && !ph.optional {
			return "", &cardpointe.ValidationError{Field: ph.name, Message: "required path variable is missing"}
		}
		return url.PathEscape(value), nil
	})
	if err != nil {
		return transport.Request{}, Route{}, scope(err, service, action)
	}

	if d.registry.InjectsMerchant() {
		fields.Delete(merchantField)
		if !hasPlaceholder(route.Path, merchantField) {
			withMerchant := payload.New(payload.F(merchantField, d.creds.MerchantID))
			for _, f := range fields.Fields() {
				withMerchant.Set(f.Key, f.Value)
			}
			fields = withMerchant
		}
	}

	req := transport.Request{
		Method:   route.Method,
		URL:      host + path,
		Username: d.creds.Username,
		Password: d.creds.Password,
	}

	if transport.HasBody(route.Method) {
		req.Body = &fields
		return req, route, nil
	}

	query, err := fields.Query()
	if err != nil {
		return transport.Request{}, Route{}, &cardpointe.ValidationError{
			Service: service,
			Action:  action,
			Field:   "query",
			Message: err.Error(),
		}
	}
	if query != "" {
		req.URL += "?" + query
	}
	return req, route, nil
}

// Call builds and sends the request. Nothing is sent when the operation is
// unsupported or the payload does not fit the route.
func (d *Dispatcher) Call(ctx context.Context, service string, action cardpointe.Action, p payload.Payload) (*cardpointe.Response, error) {
	req, route, err := d.Build(service, action, p)
	if err != nil {
		return nil, err
	}

	resp, err := d.executor.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	if d.checkResponses && route.Check != nil {
		if message, declined := route.Check(resp); declined {
			return resp, &cardpointe.ResponseError{
				Service:  service,
				Action:   action,
				Message:  message,
				Response: resp,
			}
		}
	}
	return resp, nil
}

// Service returns the named service bound to this dispatcher. Unknown names
// still yield a value; its actions fail with *UnsupportedOperationError.
func (d *Dispatcher) Service(name string) cardpointe.Service {
	return &boundService{dispatcher: d, name: name}
}

func scope(err error, service string, action cardpointe.Action) error {
	if validationErr, ok := cardpointe.IsValidationError(err); ok {
		validationErr.Service = service
		validationErr.Action = action
	}
	return err
}

type boundService struct {
	dispatcher *Dispatcher
	name       string
}

func (s *boundService) Name() string {
	return s.name
}

func (s *boundService) Actions() []cardpointe.Action {
	return s.dispatcher.registry.Actions(s.name)
}

func (s *boundService) Supports(action cardpointe.Action) bool {
	_, err := s.dispatcher.registry.Resolve(s.name, action)
	return err == nil
}

func (s *boundService) Create(ctx context.Context, p payload.Payload) (*cardpointe.Response, error) {
	return s.Do(ctx, cardpointe.ActionCreate, p)
}

func (s *boundService) Get(ctx context.Context, p payload.Payload) (*cardpointe.Response, error) {
	return s.Do(ctx, cardpointe.ActionGet, p)
}

func (s *boundService) Update(ctx context.Context, p payload.Payload) (*cardpointe.Response, error) {
	return s.Do(ctx, cardpointe.ActionUpdate, p)
}

func (s *boundService) Delete(ctx context.Context, p payload.Payload) (*cardpointe.Response, error) {
	return s.Do(ctx, cardpointe.ActionDelete, p)
}

func (s *boundService) Do(ctx context.Context, action cardpointe.Action, p payload.Payload) (*cardpointe.Response, error) {
	return s.dispatcher.Call(ctx, s.name, action, p)
}

// Bind validates the credentials and wires a dispatcher with the executor
// described by opts.
func Bind(registry *Registry, creds cardpointe.Credentials, opts cardpointe.Options) (*Dispatcher, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	executor := transport.NewExecutor(opts.HTTPClient, opts.Logger.With("site", creds.Site), opts.UserAgent)
	return NewDispatcher(registry, creds, executor, opts.Host, opts.CheckResponses), nil
}
