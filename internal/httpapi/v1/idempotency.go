package v1

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"sync"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
)

// storedResponse is a completed response kept for replay under its key.
type storedResponse struct {
	BodyHash string
	Status   int
	Payload  []byte
	pending  bool
}

// idempotencyCache remembers successful responses by Idempotency-Key for the
// life of the process.
type idempotencyCache struct {
	mu      sync.Mutex
	entries map[string]storedResponse
}

func newIdempotencyCache() *idempotencyCache {
	return &idempotencyCache{entries: make(map[string]storedResponse)}
}

func hashBytes(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// idempotent replays the stored response when a request repeats a key with the
// same body, and refuses a reused key with a different body. Requests without
// the header pass straight through.
func (s *Server) idempotent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(idempotencyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			badRequest(w, "could not read body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		// whitespace differences do not change the body hash
		var compact bytes.Buffer
		if json.Compact(&compact, body) == nil {
			body = compact.Bytes()
		}
		h := hashBytes(body)

		s.idem.mu.Lock()
		prev, ok := s.idem.entries[key]
		switch {
		case ok && prev.BodyHash != h:
			s.idem.mu.Unlock()
			conflict(w, "idempotency key reused with a different body", "idempotency_mismatch")
			return
		case ok && prev.pending:
			s.idem.mu.Unlock()
			conflict(w, "request with this idempotency key is in progress", "idempotency_in_progress")
			return
		case ok:
			s.idem.mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			idempotentReplays.Inc()
			w.Header().Set(replayedHeader, "true")
			w.WriteHeader(prev.Status)
			_, _ = w.Write(prev.Payload)
			return
		}
		s.idem.entries[key] = storedResponse{BodyHash: h, pending: true}
		s.idem.mu.Unlock()

		rw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
		completed := false
		// runs on panic too, so the key never stays pending
		defer func() {
			s.idem.mu.Lock()
			defer s.idem.mu.Unlock()
			if completed && rw.status >= 200 && rw.status < 300 {
				s.idem.entries[key] = storedResponse{BodyHash: h, Status: rw.status, Payload: append([]byte(nil), rw.buf...)}
				return
			}
			// failed attempts may be retried with the same key
			delete(s.idem.entries, key)
		}()
		next.ServeHTTP(rw, r)
		completed = true
	})
}

type captureWriter struct {
	http.ResponseWriter
	status int
	buf    []byte
}

func (w *captureWriter) WriteHeader(code int) { w.status = code; w.ResponseWriter.WriteHeader(code) }
func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf = append(w.buf, b...)
	return w.ResponseWriter.Write(b)
}
