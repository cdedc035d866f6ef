// Package cardpointe holds the types shared by the CardPointe Gateway and
// CardSecure clients: connection credentials, actions, responses, options
// and the error taxonomy.
//
// The facades live in the gateway and cardsecure packages:
//
//	gw, err := gateway.New("fts-uat", "496160873888", "testing", "testing123")
//	if err != nil {
//		return err
//	}
//	resp, err := gw.Authorization().Create(ctx, payload.New(
//		payload.F("amount", "2.01"),
//		payload.F("account", "4111111111111111"),
//		payload.F("expiry", "1222"),
//	))
package cardpointe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator"

	"github.com/DanielPopoola/cardpointe-go/payload"
)

var validate = validator.New()

// Credentials identify the merchant host and the API user.
type Credentials struct {
	Site       string `validate:"required"`
	MerchantID string `validate:"required"`
	Username   string `validate:"required"`
	Password   string `validate:"required"`
}

func NewCredentials(site, merchantID, username, password string) (Credentials, error) {
	c := Credentials{
		Site:       site,
		MerchantID: merchantID,
		Username:   username,
		Password:   password,
	}
	if err := c.Validate(); err != nil {
		return Credentials{}, err
	}
	return c, nil
}

func (c Credentials) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid credentials: %w", err)
	}
	return nil
}

func (c Credentials) String() string {
	return fmt.Sprintf("site=%s merchid=%s user=%s password=***", c.Site, c.MerchantID, c.Username)
}

// LogValue keeps the password out of structured logs.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("site", c.Site),
		slog.String("merchid", c.MerchantID),
		slog.String("username", c.Username),
	)
}

type Action string

const (
	ActionCreate Action = "create"
	ActionGet    Action = "get"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actions lists every action in canonical order.
var Actions = []Action{ActionCreate, ActionGet, ActionUpdate, ActionDelete}

func (a Action) String() string {
	return string(a)
}

// Service is a logical API operation bound to one facade. Actions the
// service does not declare fail with *UnsupportedOperationError.
type Service interface {
	Name() string
	Actions() []Action
	Supports(action Action) bool

	Create(ctx context.Context, p payload.Payload) (*Response, error)
	Get(ctx context.Context, p payload.Payload) (*Response, error)
	Update(ctx context.Context, p payload.Payload) (*Response, error)
	Delete(ctx context.Context, p payload.Payload) (*Response, error)
	Do(ctx context.Context, action Action, p payload.Payload) (*Response, error)
}
