package payload_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielPopoola/cardpointe-go/payload"
)

func TestPayload_MarshalJSON(t *testing.T) {
	t.Run("keeps insertion order", func(t *testing.T) {
		p := payload.New(
			payload.F("merchid", "496160873888"),
			payload.F("amount", "2.01"),
			payload.F("account", "4111 1111 1111 1111"),
			payload.F("expiry", "1222"),
		)

		b, err := json.Marshal(p)

		require.NoError(t, err)
		assert.Equal(t, `{"merchid":"496160873888","amount":"2.01","account":"4111 1111 1111 1111","expiry":"1222"}`, string(b))
	})

	t.Run("encodes nested values", func(t *testing.T) {
		p := payload.New(
			payload.F("amount", 125),
			payload.F("capture", true),
			payload.F("userfields", payload.New(payload.F("b", "2"), payload.F("a", "1"))),
			payload.F("items", []any{map[string]any{"sku": "x", "qty": 2}}),
			payload.F("tags", []string{"a", "b"}),
			payload.F("none", nil),
			payload.F("list", []any{nil}),
		)

		b, err := json.Marshal(p)

		require.NoError(t, err)
		assert.Equal(t, `{"amount":125,"capture":true,"userfields":{"b":"2","a":"1"},"items":[{"qty":2,"sku":"x"}],"tags":["a","b"],"list":[null]}`, string(b))
	})

	t.Run("rejects unsupported values", func(t *testing.T) {
		p := payload.New(payload.F("when", struct{}{}))

		_, err := json.Marshal(p)

		require.Error(t, err)
		assert.True(t, errors.Is(err, payload.ErrUnsupportedValue))
	})

	t.Run("empty payload is an empty object", func(t *testing.T) {
		b, err := json.Marshal(payload.Payload{})

		require.NoError(t, err)
		assert.Equal(t, `{}`, string(b))
	})
}

func TestPayload_Set(t *testing.T) {
	t.Run("replaces existing key in place", func(t *testing.T) {
		p := payload.New(payload.F("a", "1"), payload.F("b", "2"))

		p.Set("a", "3")

		assert.Equal(t, []string{"a", "b"}, p.Keys())
		v, ok := p.Get("a")
		assert.True(t, ok)
		assert.Equal(t, "3", v)
	})

	t.Run("With leaves the original untouched", func(t *testing.T) {
		base := payload.New(payload.F("a", "1"))

		next := base.With("b", "2").With("a", "9")

		assert.Equal(t, 1, base.Len())
		got, _ := base.GetString("a")
		assert.Equal(t, "1", got)
		assert.Equal(t, []string{"a", "b"}, next.Keys())
		got, _ = next.GetString("a")
		assert.Equal(t, "9", got)
	})
}

func TestPayload_OmitsNilFields(t *testing.T) {
	p := payload.New(payload.F("amount", "1"), payload.F("orderid", nil), payload.F("name", ""), payload.F("zero", 0))

	b, err := json.Marshal(p)

	require.NoError(t, err)
	assert.Equal(t, `{"amount":"1","name":"","zero":0}`, string(b))

	b, err = json.Marshal(payload.New(payload.F("orderid", nil)))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}

func TestPayload_CopiesAreIndependent(t *testing.T) {
	t.Run("delete on a copy", func(t *testing.T) {
		base := payload.New(payload.F("a", "1"), payload.F("b", "2"), payload.F("c", "3"))
		p := base

		p.Delete("a")

		assert.Equal(t, []string{"b", "c"}, p.Keys())
		assert.Equal(t, []string{"a", "b", "c"}, base.Keys())
		b, err := json.Marshal(base)
		require.NoError(t, err)
		assert.Equal(t, `{"a":"1","b":"2","c":"3"}`, string(b))
	})

	t.Run("set on a copy", func(t *testing.T) {
		base := payload.New(payload.F("amount", "100"))
		q := base

		q.Set("amount", "999")

		got, _ := base.GetString("amount")
		assert.Equal(t, "100", got)
		got, _ = q.GetString("amount")
		assert.Equal(t, "999", got)
	})

	t.Run("appends on copies do not collide", func(t *testing.T) {
		base := payload.New(payload.F("a", "1"))
		x, y := base, base

		x.Set("x", "1")
		y.Set("y", "2")

		assert.Equal(t, []string{"a", "x"}, x.Keys())
		assert.Equal(t, []string{"a", "y"}, y.Keys())
		assert.Equal(t, []string{"a"}, base.Keys())
	})
}

func TestPayload_Take(t *testing.T) {
	p := payload.New(payload.F("a", "1"), payload.F("b", "2"), payload.F("c", "3"))
	clone := p.Clone()

	v, ok := p.Take("b")

	require.True(t, ok)
	assert.Equal(t, "2", v)
	assert.Equal(t, []string{"a", "c"}, p.Keys())
	assert.Equal(t, []string{"a", "b", "c"}, clone.Keys())

	_, ok = p.Take("missing")
	assert.False(t, ok)
}

func TestPayload_GetString(t *testing.T) {
	p := payload.New(
		payload.F("s", "x"),
		payload.F("i", 12),
		payload.F("f", 1.25),
		payload.F("b", false),
		payload.F("n", json.Number("7")),
		payload.F("m", map[string]any{}),
	)

	cases := map[string]string{"s": "x", "i": "12", "f": "1.25", "b": "false", "n": "7"}
	for key, want := range cases {
		got, ok := p.GetString(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}

	_, ok := p.GetString("m")
	assert.False(t, ok)
}

func TestPayload_Query(t *testing.T) {
	t.Run("encodes in insertion order", func(t *testing.T) {
		p := payload.New(payload.F("merchid", "496160873888"), payload.F("date", "20221024"))

		q, err := p.Query()

		require.NoError(t, err)
		assert.Equal(t, "merchid=496160873888&date=20221024", q)
	})

	t.Run("escapes and skips nil", func(t *testing.T) {
		p := payload.New(payload.F("name", "John Snow&co"), payload.F("skip", nil))

		q, err := p.Query()

		require.NoError(t, err)
		assert.Equal(t, "name=John+Snow%26co", q)
	})

	t.Run("rejects nested values", func(t *testing.T) {
		p := payload.New(payload.F("userfields", map[string]any{"a": "b"}))

		_, err := p.Query()

		assert.True(t, errors.Is(err, payload.ErrUnsupportedValue))
	})
}

func TestFromMap(t *testing.T) {
	p := payload.FromMap(map[string]any{"b": 1, "a": 2})

	assert.Equal(t, []string{"a", "b"}, p.Keys())
}
