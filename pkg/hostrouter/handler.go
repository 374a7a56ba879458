package hostrouter

import "net/http"

// Handler produces a response for a request or fails.
// A returned error is turned into a 500 by the Router unless the handler
// already started writing the response.
type Handler interface {
	Handle(w http.ResponseWriter, r *http.Request) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle calls f(w, r).
func (f HandlerFunc) Handle(w http.ResponseWriter, r *http.Request) error {
	return f(w, r)
}

// FromHTTP adapts a net/http handler. The resulting Handler never returns an error.
func FromHTTP(h http.Handler) Handler {
	return httpHandler{h}
}

type httpHandler struct {
	h http.Handler
}

func (a httpHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	a.h.ServeHTTP(w, r)
	return nil
}

// Close forwards to the wrapped handler when it holds resources.
func (a httpHandler) Close() error {
	if c, ok := a.h.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// writeStatus writes a plain-text response whose body is the status text.
func writeStatus(w http.ResponseWriter, code int) {
	h := w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(http.StatusText(code)))
}

func notFound(w http.ResponseWriter, _ *http.Request) error {
	writeStatus(w, http.StatusNotFound)
	return nil
}

func internalError(w http.ResponseWriter, _ *http.Request, _ error) {
	writeStatus(w, http.StatusInternalServerError)
}

// Wrap applies net/http middleware around h. Errors returned by h still
// reach the Router; a middleware that answers without calling the next
// handler yields no error.
func Wrap(h Handler, mws ...func(http.Handler) http.Handler) Handler {
	if len(mws) == 0 {
		return h
	}
	return HandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
		var err error
		var next http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err = h.Handle(w, r)
		})
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		next.ServeHTTP(w, r)
		return err
	})
}
