// Package cardsecure is the client for the CardSecure tokenization API.
package cardsecure

import (
	"net/http"

	cardpointe "github.com/DanielPopoola/cardpointe-go"
	"github.com/DanielPopoola/cardpointe-go/internal/endpoint"
	"github.com/DanielPopoola/cardpointe-go/payload"
)

const (
	ServiceTokenize = "tokenize"
	ServiceEcho     = "echo"
)

const apiPath = "/cardsecure/api/v1"

// CardSecure requests do not carry the merchant id.
var registry = endpoint.NewRegistry(false,
	endpoint.Descriptor{
		Name: ServiceTokenize,
		Routes: map[cardpointe.Action]endpoint.Route{
			cardpointe.ActionCreate: {
				Method:  http.MethodPost,
				Path:    apiPath + "/ccn/tokenize",
				Prepare: requireAccountData,
				Check:   checkErrorCode,
			},
			cardpointe.ActionUpdate: {
				Method:  http.MethodPost,
				Path:    apiPath + "/ccn/tokenize",
				Prepare: requireToken,
				Check:   checkErrorCode,
			},
		},
	},
	endpoint.Descriptor{
		Name: ServiceEcho,
		Routes: map[cardpointe.Action]endpoint.Route{
			cardpointe.ActionCreate: {Method: http.MethodPost, Path: apiPath + "/echo", Check: checkErrorCode},
		},
	},
)

type CardSecure struct {
	dispatcher *endpoint.Dispatcher
}

func New(site, merchantID, username, password string, opts ...cardpointe.Option) (*CardSecure, error) {
	creds := cardpointe.Credentials{
		Site:       site,
		MerchantID: merchantID,
		Username:   username,
		Password:   password,
	}
	return NewWithCredentials(creds, opts...)
}

func NewWithCredentials(creds cardpointe.Credentials, opts ...cardpointe.Option) (*CardSecure, error) {
	dispatcher, err := endpoint.Bind(registry, creds, cardpointe.NewOptions(opts...))
	if err != nil {
		return nil, err
	}
	return &CardSecure{dispatcher: dispatcher}, nil
}

func (c *CardSecure) Service(name string) (cardpointe.Service, error) {
	if !registry.Has(name) {
		return nil, &cardpointe.UnsupportedOperationError{Service: name}
	}
	return c.dispatcher.Service(name), nil
}

func (c *CardSecure) Services() []string {
	return registry.Names()
}

// Tokenize creates a token from "account" or "devicedata", or updates the
// expiry and CVV stored with an existing token passed as "account".
func (c *CardSecure) Tokenize() cardpointe.Service {
	return c.dispatcher.Service(ServiceTokenize)
}

// Echo pings CardSecure. The "message" field is echoed back.
func (c *CardSecure) Echo() cardpointe.Service {
	return c.dispatcher.Service(ServiceEcho)
}

func requireAccountData(p payload.Payload) (payload.Payload, error) {
	_, hasAccount := p.GetString("account")
	_, hasDeviceData := p.GetString("devicedata")
	if !hasAccount && !hasDeviceData {
		return p, &cardpointe.ValidationError{Field: "account", Message: "either account or devicedata is required"}
	}
	return p, nil
}

func requireToken(p payload.Payload) (payload.Payload, error) {
	if token, ok := p.GetString("account"); !ok || token == "" {
		return p, &cardpointe.ValidationError{Field: "account", Message: "token is required"}
	}
	return p, nil
}

func checkErrorCode(resp *cardpointe.Response) (string, bool) {
	if code := resp.String("errorcode"); code != "" && code != "0" {
		return resp.String("message"), true
	}
	return "", false
}
