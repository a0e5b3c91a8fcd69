// Copyright 2025 The Wayfind Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRecorder records the observability lifecycle calls made by the router.
type mockRecorder struct {
	started   int
	ended     int
	wrapped   int
	templates []string
}

type mockObsState struct{}

func (m *mockRecorder) OnRequestStart(ctx context.Context, req *http.Request) (context.Context, any) {
	m.started++
	return ctx, &mockObsState{}
}

func (m *mockRecorder) WrapResponseWriter(w http.ResponseWriter, state any) http.ResponseWriter {
	m.wrapped++
	return &responseWriter{ResponseWriter: w}
}

func (m *mockRecorder) OnRequestEnd(ctx context.Context, state any, w http.ResponseWriter, routeTemplate string) {
	m.ended++
	m.templates = append(m.templates, routeTemplate)
}

func (m *mockRecorder) BuildRequestLogger(ctx context.Context, req *http.Request, routeTemplate string) *slog.Logger {
	return NoopLogger()
}

func TestObservabilityLifecycle(t *testing.T) {
	t.Parallel()
	rec := &mockRecorder{}
	r := MustNew()
	r.SetObservabilityRecorder(rec)
	r.GET("/users/:id", okHandler("ok"))

	w := doRequest(r, http.MethodGet, "/users/42")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1, rec.started)
	assert.Equal(t, 1, rec.wrapped)
	assert.Equal(t, 1, rec.ended)
	assert.Equal(t, []string{"/users/:id"}, rec.templates)
}

func TestObservabilityNotFoundTemplate(t *testing.T) {
	t.Parallel()
	rec := &mockRecorder{}
	r := MustNew()
	r.SetObservabilityRecorder(rec)
	r.GET("/a", okHandler("a"))

	doRequest(r, http.MethodGet, "/missing")
	require.Equal(t, []string{routeNotFound}, rec.templates)

	doRequest(r, http.MethodPost, "/a")
	assert.Equal(t, []string{routeNotFound, routeMethodNotAllowed}, rec.templates)
}

func TestNoopLoggerSingleton(t *testing.T) {
	t.Parallel()
	require.NotNil(t, NoopLogger())
	assert.Same(t, NoopLogger(), NoopLogger())
}
