package endpoint_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cardpointe "github.com/DanielPopoola/cardpointe-go"
	"github.com/DanielPopoola/cardpointe-go/internal/endpoint"
	"github.com/DanielPopoola/cardpointe-go/internal/transport"
	"github.com/DanielPopoola/cardpointe-go/payload"
)

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Execute(ctx context.Context, req transport.Request) (*cardpointe.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*cardpointe.Response)
	return resp, args.Error(1)
}

var creds = cardpointe.Credentials{
	Site:       "fts-uat",
	MerchantID: "496160873888",
	Username:   "testing",
	Password:   "testing123",
}

func testRegistry() *endpoint.Registry {
	return endpoint.NewRegistry(true,
		endpoint.Descriptor{
			Name: "auth",
			Routes: map[cardpointe.Action]endpoint.Route{
				cardpointe.ActionCreate: {
					Method: http.MethodPost,
					Path:   "/rest/auth",
					Check: func(resp *cardpointe.Response) (string, bool) {
						return resp.String("resptext"), !resp.Approved()
					},
				},
			},
		},
		endpoint.Descriptor{
			Name: "inquire",
			Routes: map[cardpointe.Action]endpoint.Route{
				cardpointe.ActionGet: {Method: http.MethodGet, Path: "/rest/inquire/{retref}/{merchid}/{set?}"},
			},
		},
		endpoint.Descriptor{
			Name: "report",
			Routes: map[cardpointe.Action]endpoint.Route{
				cardpointe.ActionGet:    {Method: http.MethodGet, Path: "/rest/report"},
				cardpointe.ActionDelete: {Method: http.MethodDelete, Path: "/rest/report/{id}/{merchid}"},
			},
		},
	)
}

func newDispatcher(exec endpoint.Executor, checks bool) *endpoint.Dispatcher {
	return endpoint.NewDispatcher(testRegistry(), creds, exec, "https://{site}.cardconnect.com", checks)
}

func TestRegistry_Resolve(t *testing.T) {
	r := testRegistry()

	t.Run("registered pairs resolve to one route", func(t *testing.T) {
		for _, name := range r.Names() {
			for _, action := range r.Actions(name) {
				route, err := r.Resolve(name, action)
				require.NoError(t, err, "%s.%s", name, action)
				assert.NotEmpty(t, route.Method)
				assert.NotEmpty(t, route.Path)
			}
		}
	})

	t.Run("unknown service", func(t *testing.T) {
		_, err := r.Resolve("missing", cardpointe.ActionGet)

		opErr, ok := cardpointe.IsUnsupportedOperation(err)
		require.True(t, ok)
		assert.Equal(t, "missing", opErr.Service)
		assert.Equal(t, cardpointe.ActionGet, opErr.Action)
	})

	t.Run("unsupported action", func(t *testing.T) {
		_, err := r.Resolve("auth", cardpointe.ActionDelete)

		_, ok := cardpointe.IsUnsupportedOperation(err)
		assert.True(t, ok)
	})

	t.Run("names and actions are ordered", func(t *testing.T) {
		assert.Equal(t, []string{"auth", "inquire", "report"}, r.Names())
		assert.Equal(t, []cardpointe.Action{cardpointe.ActionGet, cardpointe.ActionDelete}, r.Actions("report"))
		assert.Nil(t, r.Actions("missing"))
	})
}

func TestNewRegistry_PanicsOnDuplicate(t *testing.T) {
	d := endpoint.Descriptor{
		Name:   "x",
		Routes: map[cardpointe.Action]endpoint.Route{cardpointe.ActionGet: {Method: http.MethodGet, Path: "/x"}},
	}

	assert.Panics(t, func() { endpoint.NewRegistry(false, d, d) })
	assert.Panics(t, func() { endpoint.NewRegistry(false, endpoint.Descriptor{Name: "empty"}) })
}

func TestDispatcher_Build(t *testing.T) {
	d := newDispatcher(&mockExecutor{}, false)

	t.Run("injects merchant id first in body", func(t *testing.T) {
		p := payload.New(payload.F("amount", "2.01"), payload.F("merchid", "spoofed"), payload.F("account", "4111"))

		req, _, err := d.Build("auth", cardpointe.ActionCreate, p)

		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "https://fts-uat.cardconnect.com/rest/auth", req.URL)
		assert.Equal(t, "testing", req.Username)
		assert.Equal(t, "testing123", req.Password)
		b, err := json.Marshal(req.Body)
		require.NoError(t, err)
		assert.Equal(t, `{"merchid":"496160873888","amount":"2.01","account":"4111"}`, string(b))
		assert.Equal(t, []string{"amount", "merchid", "account"}, p.Keys(), "caller payload must not change")
	})

	t.Run("substitutes path variables", func(t *testing.T) {
		req, _, err := d.Build("inquire", cardpointe.ActionGet, payload.New(payload.F("retref", "296072706652"), payload.F("set", 1)))

		require.NoError(t, err)
		assert.Equal(t, "https://fts-uat.cardconnect.com/rest/inquire/296072706652/496160873888/1", req.URL)
		assert.Nil(t, req.Body)
	})

	t.Run("drops empty optional trailing segment", func(t *testing.T) {
		req, _, err := d.Build("inquire", cardpointe.ActionGet, payload.New(payload.F("retref", "296072706652")))

		require.NoError(t, err)
		assert.Equal(t, "https://fts-uat.cardconnect.com/rest/inquire/296072706652/496160873888", req.URL)
	})

	t.Run("escapes path variables", func(t *testing.T) {
		req, _, err := d.Build("inquire", cardpointe.ActionGet, payload.New(payload.F("retref", "a b/c")))

		require.NoError(t, err)
		assert.Equal(t, "https://fts-uat.cardconnect.com/rest/inquire/a%20b%2Fc/496160873888", req.URL)
	})

	t.Run("missing path variable", func(t *testing.T) {
		_, _, err := d.Build("inquire", cardpointe.ActionGet, payload.Payload{})

		validationErr, ok := cardpointe.IsValidationError(err)
		require.True(t, ok)
		assert.Equal(t, "retref", validationErr.Field)
		assert.Equal(t, "inquire", validationErr.Service)
		assert.Equal(t, cardpointe.ActionGet, validationErr.Action)
	})

	t.Run("GET puts merchant id and leftovers in query", func(t *testing.T) {
		req, _, err := d.Build("report", cardpointe.ActionGet, payload.New(payload.F("date", "20221024")))

		require.NoError(t, err)
		assert.Equal(t, "https://fts-uat.cardconnect.com/rest/report?merchid=496160873888&date=20221024", req.URL)
	})

	t.Run("DELETE has no body", func(t *testing.T) {
		req, _, err := d.Build("report", cardpointe.ActionDelete, payload.New(payload.F("id", "7")))

		require.NoError(t, err)
		assert.Equal(t, http.MethodDelete, req.Method)
		assert.Equal(t, "https://fts-uat.cardconnect.com/rest/report/7/496160873888", req.URL)
		assert.Nil(t, req.Body)
	})

	t.Run("is deterministic", func(t *testing.T) {
		p := payload.New(payload.F("date", "20221024"), payload.F("page", 2))

		first, _, err := d.Build("report", cardpointe.ActionGet, p)
		require.NoError(t, err)
		for i := 0; i < 10; i++ {
			again, _, err := d.Build("report", cardpointe.ActionGet, p)
			require.NoError(t, err)
			assert.Equal(t, first.URL, again.URL)
		}
	})

	t.Run("prepare hook runs before path extraction", func(t *testing.T) {
		r := endpoint.NewRegistry(false, endpoint.Descriptor{
			Name: "profile",
			Routes: map[cardpointe.Action]endpoint.Route{
				cardpointe.ActionGet: {
					Method: http.MethodGet,
					Path:   "/profile/{profileid}/{acctid?}/{merchid}",
					Prepare: func(p payload.Payload) (payload.Payload, error) {
						p.Set("profileid", "123")
						return p, nil
					},
				},
			},
		})
		pd := endpoint.NewDispatcher(r, creds, &mockExecutor{}, "http://localhost:8080/", false)

		req, _, err := pd.Build("profile", cardpointe.ActionGet, payload.Payload{})

		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/profile/123//496160873888", req.URL)
	})
}

func TestDispatcher_Call(t *testing.T) {
	t.Run("unsupported operation sends nothing", func(t *testing.T) {
		exec := &mockExecutor{}
		d := newDispatcher(exec, false)

		_, err := d.Service("auth").Delete(context.Background(), payload.Payload{})
		require.Error(t, err)
		_, err = d.Service("nope").Get(context.Background(), payload.Payload{})
		require.Error(t, err)

		_, ok := cardpointe.IsUnsupportedOperation(err)
		assert.True(t, ok)
		exec.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	})

	t.Run("returns executor response", func(t *testing.T) {
		exec := &mockExecutor{}
		want := &cardpointe.Response{StatusCode: 200, Body: map[string]any{"respstat": "C", "resptext": "Declined"}}
		exec.On("Execute", mock.Anything, mock.MatchedBy(func(req transport.Request) bool {
			return req.URL == "https://fts-uat.cardconnect.com/rest/auth"
		})).Return(want, nil).Once()
		d := newDispatcher(exec, false)

		resp, err := d.Service("auth").Create(context.Background(), payload.New(payload.F("amount", "1")))

		require.NoError(t, err)
		assert.Same(t, want, resp)
		exec.AssertExpectations(t)
	})

	t.Run("response checks turn declines into errors", func(t *testing.T) {
		exec := &mockExecutor{}
		declined := &cardpointe.Response{StatusCode: 200, Body: map[string]any{"respstat": "C", "resptext": "Declined"}}
		exec.On("Execute", mock.Anything, mock.Anything).Return(declined, nil).Once()
		d := newDispatcher(exec, true)

		resp, err := d.Service("auth").Create(context.Background(), payload.Payload{})

		respErr, ok := cardpointe.IsResponseError(err)
		require.True(t, ok)
		assert.Equal(t, "Declined", respErr.Message)
		assert.Equal(t, "auth", respErr.Service)
		assert.Same(t, declined, resp)
	})

	t.Run("bound service reports capabilities", func(t *testing.T) {
		svc := newDispatcher(&mockExecutor{}, false).Service("report")

		assert.Equal(t, "report", svc.Name())
		assert.True(t, svc.Supports(cardpointe.ActionGet))
		assert.False(t, svc.Supports(cardpointe.ActionCreate))
		assert.Equal(t, []cardpointe.Action{cardpointe.ActionGet, cardpointe.ActionDelete}, svc.Actions())
	})
}
