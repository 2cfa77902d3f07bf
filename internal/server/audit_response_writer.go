package server

import (
	"bytes"
	"net/http"
)

// responseWriterWrapper records the status code and size of a response, and
// its body when capture is set.
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
	bytes      int
	capture    bool
	buffer     bytes.Buffer
}

func newResponseWriterWrapper(w http.ResponseWriter, capture bool) *responseWriterWrapper {
	return &responseWriterWrapper{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		capture:        capture,
	}
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriterWrapper) Write(b []byte) (int, error) {
	if w.capture {
		w.buffer.Write(b)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *responseWriterWrapper) GetStatusCode() int {
	return w.statusCode
}

func (w *responseWriterWrapper) GetBytes() int {
	return w.bytes
}

func (w *responseWriterWrapper) GetBody() []byte {
	return w.buffer.Bytes()
}
