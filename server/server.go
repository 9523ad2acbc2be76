/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Authors:
 *	- Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

// Package server exposes oric.Analyze over HTTP, accepting the same form
// fields as the web front end: an uploaded genome file or pasted sequence,
// plus k and window_size.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/inconshreveable/log15"
	"github.com/wtsi-hgi/oric-finder/config"
	"github.com/wtsi-hgi/oric-finder/kmer"
	"github.com/wtsi-hgi/oric-finder/oric"
	"github.com/wtsi-hgi/oric-finder/skewplot"
	"golang.org/x/sync/semaphore"
)

const (
	AnalyzePath = "/analyze"
	HealthPath  = "/healthz"

	fieldFile       = "file"
	fieldSequence   = "sequence"
	fieldK          = "k"
	fieldWindowSize = "window_size"
	fieldCanonical  = "canonical"

	contentTypeJSON = "application/json"
	memoryLimit     = 32 << 20
)

// Options configure a Server.
type Options struct {
	// DefaultK and DefaultWindowSize are used when a request doesn't supply
	// k or window_size.
	DefaultK          int
	DefaultWindowSize int

	// DefaultPolicy applies when a request doesn't say canonical=true/false.
	DefaultPolicy kmer.Policy

	// MaxUploadBytes caps the size of request bodies. 0 means
	// config.DefaultMaxUploadBytes.
	MaxUploadBytes int64

	// Concurrency is the maximum number of analyses run at once.
	Concurrency int

	Plot skewplot.Options
}

// Server is an http.Handler that runs analyses.
type Server struct {
	opts   Options
	sem    *semaphore.Weighted
	logger log15.Logger
	mux    *http.ServeMux
}

// New returns a Server that logs each request to the given logger.
func New(opts Options, logger log15.Logger) *Server {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	if opts.MaxUploadBytes < 1 {
		opts.MaxUploadBytes = config.DefaultMaxUploadBytes
	}

	s := &Server{
		opts:   opts,
		sem:    semaphore.NewWeighted(int64(opts.Concurrency)),
		logger: logger.New("pkg", "server"),
		mux:    http.NewServeMux(),
	}

	s.mux.HandleFunc(AnalyzePath, s.handleAnalyze)
	s.mux.HandleFunc(HealthPath, s.handleHealth)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	s.mux.ServeHTTP(rw, r)

	s.logger.Info("request", "method", r.Method, "path", r.URL.Path,
		"status", rw.status, "duration", time.Since(start))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "only POST is supported")

		return
	}

	if err := s.bufferBody(w, r); err != nil {
		writeError(w, statusForParseError(err), err.Error())

		return
	}

	req, err := s.parseRequest(r)
	if err != nil {
		writeError(w, statusForParseError(err), err.Error())

		return
	}

	if err = s.sem.Acquire(r.Context(), 1); err != nil {
		writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting for capacity")

		return
	}

	result, err := oric.Analyze(req)

	s.sem.Release(1)

	if err != nil {
		s.logger.Warn("analysis failed", "class", oric.Classify(err).String(), "err", err)
		writeError(w, statusForClass(oric.Classify(err)), err.Error())

		return
	}

	writeJSON(w, http.StatusOK, result)
}

// bufferBody reads the whole request body, failing with an
// *http.MaxBytesError if it is over MaxUploadBytes, and replaces it with the
// buffered copy. The copy stays behind a MaxBytesReader so that form parsing
// doesn't apply its own, smaller, size limit.
func (s *Server) bufferBody(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes))
	if err != nil {
		return err
	}

	r.Body = http.MaxBytesReader(w, io.NopCloser(bytes.NewReader(body)), s.opts.MaxUploadBytes)

	return nil
}

func (s *Server) parseRequest(r *http.Request) (oric.Request, error) {
	if err := parseForm(r); err != nil {
		return oric.Request{}, err
	}

	input, err := formInput(r)
	if err != nil {
		return oric.Request{}, err
	}

	k, err := formInt(r, fieldK, s.opts.DefaultK)
	if err != nil {
		return oric.Request{}, err
	}

	windowSize, err := formInt(r, fieldWindowSize, s.opts.DefaultWindowSize)
	if err != nil {
		return oric.Request{}, err
	}

	policy, err := formPolicy(r, s.opts.DefaultPolicy)
	if err != nil {
		return oric.Request{}, err
	}

	return oric.Request{
		Input:      input,
		K:          k,
		WindowSize: windowSize,
		Policy:     policy,
		Plot:       s.opts.Plot,
	}, nil
}

func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(memoryLimit)
	}

	return r.ParseForm()
}

// formInput returns the contents of the uploaded file if there is one,
// otherwise the sequence field.
func formInput(r *http.Request) (string, error) {
	file, _, err := r.FormFile(fieldFile)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return r.FormValue(fieldSequence), nil
	}

	if err != nil {
		return "", err
	}

	defer file.Close()

	return readUpload(file)
}

func readUpload(file multipart.File) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func formInt(r *http.Request, field string, def int) (int, error) {
	val := strings.TrimSpace(r.FormValue(field))
	if val == "" {
		return def, nil
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, not %q", oric.ErrInvalidParameter, field, val)
	}

	return n, nil
}

func formPolicy(r *http.Request, def kmer.Policy) (kmer.Policy, error) {
	val := strings.TrimSpace(r.FormValue(fieldCanonical))
	if val == "" {
		return def, nil
	}

	canonical, err := strconv.ParseBool(val)
	if err != nil {
		return def, fmt.Errorf("%w: %s must be true or false, not %q",
			oric.ErrInvalidParameter, fieldCanonical, val)
	}

	if canonical {
		return kmer.Canonical, nil
	}

	return kmer.StrandSpecific, nil
}

func statusForParseError(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}

	return http.StatusBadRequest
}

func statusForClass(c oric.Class) int {
	switch c {
	case oric.InvalidInput, oric.InvalidParameter:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(v) //nolint:errcheck,errchkjson
}
