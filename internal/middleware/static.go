package middleware

import (
	"net/http"
	"os"
	"path/filepath"
)

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 126"><rect width="200" height="126" rx="10" fill="#2b2d42"/><rect x="14" y="34" width="40" height="28" rx="4" fill="#edf2f4"/><text x="14" y="100" font-family="Arial" font-size="14" fill="#edf2f4">**** **** **** ****</text></svg>`

// StaticFileServer serves card art images, falling back to a generic
// card placeholder when the requested file does not exist.
func StaticFileServer(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean(r.URL.Path))

		if _, err := os.Stat(path); err == nil {
			w.Header().Set("Cache-Control", "public, max-age=2592000")
			http.ServeFile(w, r, path)
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Write([]byte(placeholderSVG))
	})
}
