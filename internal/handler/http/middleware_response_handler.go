// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "net/http"

// responseWriter records the status code and body size written through it.
// WriteHeader is forwarded to the wrapped writer at most once.
type responseWriter struct {
	http.ResponseWriter

	// status is the code passed to the first WriteHeader call, or zero until
	// a header is written.
	status      int
	// wroteHeader guards against forwarding a second WriteHeader.
	wroteHeader bool
	// size is the running total of body bytes written.
	size        int
}

// WriteHeader records statusCode and forwards it to the wrapped writer.
// Calls after the first are ignored, as [http.ResponseWriter] allows a single
// header per response.
func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write sends b to the wrapped writer, writing a 200 header first if none
// was written.
func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}
