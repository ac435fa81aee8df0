package shared

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxBodySize caps request bodies; base64-encoded uploads pass through the
// JSON body, so the cap is generous.
const maxBodySize = 32 << 20 // 32 MiB

// DecodeJSON parses the request body into dst, rejecting oversized bodies.
func DecodeJSON(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodySize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}
