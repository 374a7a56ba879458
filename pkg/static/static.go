package static

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"syscall"
)

// DefaultIndex is the document served for directory requests.
const DefaultIndex = "index.html"

// Handler serves files from an fs.FS.
type Handler struct {
	fsys  fs.FS
	index string
	spa   bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithIndex sets the index document name. Default: DefaultIndex.
func WithIndex(name string) Option {
	return func(h *Handler) {
		if name != "" {
			h.index = name
		}
	}
}

// WithSPAFallback serves the root index document for missing paths that
// have no file extension.
func WithSPAFallback() Option {
	return func(h *Handler) {
		h.spa = true
	}
}

// New serves the directory at root. It fails if root does not exist or is
// not a directory.
func New(root string, opts ...Option) (*Handler, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Join(ErrRootNotFound, err)
	}
	if !info.IsDir() {
		return nil, ErrRootNotDir
	}
	return NewFS(os.DirFS(root), opts...), nil
}

// NewFS serves files from fsys.
func NewFS(fsys fs.FS, opts ...Option) *Handler {
	h := &Handler{fsys: fsys, index: DefaultIndex}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP implements http.Handler. Unexpected file system errors become 500.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Handle(w, r); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Handle serves the file named by the request path.
// Missing files answer 404; other file system errors are returned.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeStatus(w, http.StatusMethodNotAllowed)
		return nil
	}

	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "."
	}

	err := h.serve(w, r, name)
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if h.spa && path.Ext(name) == "" {
		err = h.serve(w, r, h.index)
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	writeStatus(w, http.StatusNotFound)
	return nil
}

// serve writes the named file, or the index document of the named directory.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, name string) error {
	if !fs.ValidPath(name) {
		return fs.ErrNotExist
	}

	f, err := h.fsys.Open(name)
	if err != nil {
		return notExist(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	if info.IsDir() {
		return h.serve(w, r, path.Join(name, h.index))
	}
	if !info.Mode().IsRegular() {
		return fs.ErrNotExist
	}

	content, ok := f.(io.ReadSeeker)
	if !ok {
		b, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		content = bytes.NewReader(b)
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), content)
	return nil
}

// notExist folds permission, invalid-path and not-a-directory errors into
// fs.ErrNotExist so they answer 404 rather than leaking file system layout.
func notExist(err error) error {
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrInvalid) || errors.Is(err, syscall.ENOTDIR) {
		return fs.ErrNotExist
	}
	return err
}

func writeStatus(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(http.StatusText(code)))
}
