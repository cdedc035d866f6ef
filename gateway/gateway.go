// Package gateway is the client for the CardPointe Gateway REST API.
//
// Every request carries the bound merchant id: in the path where the
// endpoint template names it, otherwise as the first body or query field.
package gateway

import (
	cardpointe "github.com/DanielPopoola/cardpointe-go"
	"github.com/DanielPopoola/cardpointe-go/internal/endpoint"
)

type Gateway struct {
	dispatcher *endpoint.Dispatcher
	creds      cardpointe.Credentials
}

func New(site, merchantID, username, password string, opts ...cardpointe.Option) (*Gateway, error) {
	creds := cardpointe.Credentials{
		Site:       site,
		MerchantID: merchantID,
		Username:   username,
		Password:   password,
	}
	return NewWithCredentials(creds, opts...)
}

func NewWithCredentials(creds cardpointe.Credentials, opts ...cardpointe.Option) (*Gateway, error) {
	dispatcher, err := endpoint.Bind(registry, creds, cardpointe.NewOptions(opts...))
	if err != nil {
		return nil, err
	}
	return &Gateway{dispatcher: dispatcher, creds: creds}, nil
}

// Service looks a service up by its API name, e.g. "inquireByOrderId".
func (g *Gateway) Service(name string) (cardpointe.Service, error) {
	if !registry.Has(name) {
		return nil, &cardpointe.UnsupportedOperationError{Service: name}
	}
	return g.dispatcher.Service(name), nil
}

// Services lists the service names in registration order.
func (g *Gateway) Services() []string {
	return registry.Names()
}

func (g *Gateway) MerchantID() string {
	return g.creds.MerchantID
}

func (g *Gateway) InquireMerchant() cardpointe.Service {
	return g.dispatcher.Service(ServiceInquireMerchant)
}

// Authorization authorizes, and with capture=Y captures, a payment.
func (g *Gateway) Authorization() cardpointe.Service {
	return g.dispatcher.Service(ServiceAuthorization)
}

func (g *Gateway) Capture() cardpointe.Service {
	return g.dispatcher.Service(ServiceCapture)
}

// Inquire expects "retref" in the payload.
func (g *Gateway) Inquire() cardpointe.Service {
	return g.dispatcher.Service(ServiceInquire)
}

// InquireByOrderID expects "orderid" and an optional "set".
func (g *Gateway) InquireByOrderID() cardpointe.Service {
	return g.dispatcher.Service(ServiceInquireByOrderID)
}

func (g *Gateway) Void() cardpointe.Service {
	return g.dispatcher.Service(ServiceVoid)
}

func (g *Gateway) VoidByOrderID() cardpointe.Service {
	return g.dispatcher.Service(ServiceVoidByOrderID)
}

func (g *Gateway) Refund() cardpointe.Service {
	return g.dispatcher.Service(ServiceRefund)
}

// Profile manages stored payment profiles. Get, Update and Delete take
// "profile" as "<profileid>/<acctid>"; Get and Delete also accept a bare
// profile id.
func (g *Gateway) Profile() cardpointe.Service {
	return g.dispatcher.Service(ServiceProfile)
}

func (g *Gateway) Signature() cardpointe.Service {
	return g.dispatcher.Service(ServiceSignature)
}

// BIN expects "token" in the payload.
func (g *Gateway) BIN() cardpointe.Service {
	return g.dispatcher.Service(ServiceBIN)
}

// Funding accepts an optional "date" (YYYYMMDD).
func (g *Gateway) Funding() cardpointe.Service {
	return g.dispatcher.Service(ServiceFunding)
}
