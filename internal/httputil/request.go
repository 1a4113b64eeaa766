package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// maxJSONBodySize bounds JSON request bodies. File uploads go through
// multipart forms with their own limit; metadata requests stay small.
const maxJSONBodySize = 1 << 20

// ParseJSON decodes JSON from the request body into the given destination.
// It limits the request body size and provides clear error messages.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// PathID parses the {id} path segment of a route as a positive integer.
func PathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", name, raw)
	}
	return id, nil
}
