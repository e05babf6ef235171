package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding"
	"encoding/gob"
	"fmt"
	"io"
	"net/http"

	"github.com/xy-planning-network/wayfarer"
)

const IdempotencyHeader = "Idempotency-Key"

var _ http.ResponseWriter = (*recordingWriter)(nil)

var (
	_ encoding.BinaryMarshaler   = StoredResponse{}
	_ encoding.BinaryUnmarshaler = (*StoredResponse)(nil)
)

var defaultCache = NewMemoryCache(idemTTL)

// Idempotent lets a client retry a POST carrying an Idempotency-Key header
// without the handler running twice, following
// https://tools.ietf.org/id/draft-idempotency-header-01.html
//
// Other methods, and POSTs without a key, pass straight through.
// Keys belong to the signed in User, if any, so two users never collide.
//
// The first request with a key runs the handler and its response is kept in cache.
// A later request with the same key gets one of:
//   - 409 while the first is still being handled
//   - 422 if it targets another URI or sends another body
//   - the kept response otherwise
//
// A nil cache keeps responses in memory.
func Idempotent(cache IdempotencyCacher) Adapter {
	if cache == nil {
		cache = defaultCache
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if r.Method != http.MethodPost || key == "" {
				handler.ServeHTTP(w, r)
				return
			}

			if u, ok := r.Context().Value(wayfarer.CurrentUserKey).(wayfarer.User); ok {
				key = fmt.Sprintf("%d:%s", u.ID, key)
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			sum := sha256.Sum256(body)

			rw := &recordingWriter{
				ResponseWriter: w,
				saved:          NewStoredResponse(r.URL.RequestURI(), sum[:]),
			}

			if prev, ok := cache.Reserve(r.Context(), key, rw.saved); !ok {
				prev.replay(w, r.URL.RequestURI(), sum[:])
				return
			}

			rw.save = func() { cache.Set(r.Context(), key, rw.saved) }
			handler.ServeHTTP(rw, r)

			// A handler writing nothing has still answered 200.
			if rw.saved.Status == 0 {
				rw.WriteHeader(http.StatusOK)
			}
			rw.save()
		})
	}
}

// A StoredResponse is what Idempotent keeps of a response
// to play it back for a retried request.
type StoredResponse struct {
	Body    []byte
	Header  http.Header
	ReqHash []byte
	Status  int
	URI     string
}

// NewStoredResponse starts a StoredResponse for a request to uri
// whose body hashes to reqHash.
func NewStoredResponse(uri string, reqHash []byte) StoredResponse {
	return StoredResponse{Header: make(http.Header), ReqHash: reqHash, URI: uri}
}

// replay answers a retry to uri whose body hashes to reqHash.
func (s StoredResponse) replay(w http.ResponseWriter, uri string, reqHash []byte) {
	switch {
	case s.Status == 0:
		w.WriteHeader(http.StatusConflict)

	case s.URI != uri, !bytes.Equal(s.ReqHash, reqHash):
		w.WriteHeader(http.StatusUnprocessableEntity)

	default:
		for k, vals := range s.Header {
			w.Header()[k] = vals
		}
		w.WriteHeader(s.Status)
		_, _ = w.Write(s.Body)
	}
}

// storedResponseGob has the fields of StoredResponse without its methods,
// so gob does not call back into MarshalBinary.
type storedResponseGob StoredResponse

// MarshalBinary gob encodes s.
// Redis stores a StoredResponse through it.
func (s StoredResponse) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := gob.NewEncoder(buf).Encode(storedResponseGob(s)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary decodes what MarshalBinary encoded.
func (s *StoredResponse) UnmarshalBinary(b []byte) error {
	var g storedResponseGob
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&g); err != nil {
		return err
	}

	*s = StoredResponse(g)
	if s.Header == nil {
		s.Header = make(http.Header)
	}

	return nil
}

// A recordingWriter copies a response into a StoredResponse as it is written.
type recordingWriter struct {
	http.ResponseWriter

	save  func()
	saved StoredResponse
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	if rw.saved.Status == 0 {
		rw.WriteHeader(http.StatusOK)
	}

	n, err := rw.ResponseWriter.Write(b)
	rw.saved.Body = append(rw.saved.Body, b[:n]...)
	return n, err
}

// WriteHeader keeps the status and headers and saves them right away,
// so retries stop seeing 409.
func (rw *recordingWriter) WriteHeader(status int) {
	if rw.saved.Status != 0 {
		return
	}

	rw.saved.Header = rw.Header().Clone()
	rw.saved.Status = status
	rw.ResponseWriter.WriteHeader(status)
	rw.save()
}
