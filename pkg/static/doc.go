// Package static serves files from a directory below a fixed root.
//
// Unlike http.FileServer it never redirects "/index.html" to "/", never
// lists directories, and answers plain 404 "Not Found" for missing files.
// Conditional and range requests are handled by http.ServeContent.
//
// An optional single-page-app fallback serves the index document for unknown
// paths without a file extension, so client-side routes of a built front-end
// bundle resolve.
//
//	files, err := static.New("./web/dist", static.WithSPAFallback())
//	if err != nil {
//		return err
//	}
//	_ = reg.Register("www.example.com", files)
package static
