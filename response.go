package cardpointe

import "fmt"

// Response is a decoded API reply. Object bodies are returned in Body, array
// bodies in Items. A single element array is also exposed as Body.
type Response struct {
	StatusCode int
	Body       map[string]any
	Items      []map[string]any
	Raw        []byte
}

// String returns the field formatted as a string, or "" when it is absent.
func (r *Response) String(key string) string {
	if r == nil || r.Body == nil {
		return ""
	}
	v, ok := r.Body[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(v)
}

func (r *Response) Has(key string) bool {
	if r == nil || r.Body == nil {
		return false
	}
	_, ok := r.Body[key]
	return ok
}

// Approved reports whether respstat is "A".
func (r *Response) Approved() bool {
	return r.String("respstat") == "A"
}
