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
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextParams(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/orgs/:org/repos/:repo", func(c *Context) {
		c.JSON(http.StatusOK, c.Params())
	})

	w := doRequest(r, http.MethodGet, "/orgs/wayfind/repos/router")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"org":"wayfind","repo":"router"}`, w.Body.String())
}

func TestContextParamMissing(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/users/:id", func(c *Context) {
		assert.Equal(t, "", c.Param("nope"))
		c.Status(http.StatusNoContent)
	})

	w := doRequest(r, http.MethodGet, "/users/1")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestContextParamOverflow(t *testing.T) {
	t.Parallel()

	// More captures than the inline slots forces the map fallback.
	pattern := ""
	path := ""
	for i := 0; i < maxInlineParams+2; i++ {
		pattern += fmt.Sprintf("/:p%d", i)
		path += fmt.Sprintf("/v%d", i)
	}

	r := MustNew()
	r.GET(pattern, func(c *Context) {
		assert.Equal(t, "v0", c.Param("p0"))
		assert.Equal(t, fmt.Sprintf("v%d", maxInlineParams+1), c.Param(fmt.Sprintf("p%d", maxInlineParams+1)))
		c.Status(http.StatusOK)
	})

	w := doRequest(r, http.MethodGet, path)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContextCatchAll(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/static/**", func(c *Context) {
		rest, ok := c.CatchAll()
		require.True(t, ok)
		assert.Equal(t, rest, c.Param("path"))
		c.String(http.StatusOK, rest)
	})

	w := doRequest(r, http.MethodGet, "/static/js/app.js")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "js/app.js", w.Body.String())
}

func TestContextAffixedCaptureStripsAffix(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/files/:name.png", func(c *Context) {
		c.String(http.StatusOK, c.Param("name"))
	})
	r.GET("/v:major", func(c *Context) {
		c.String(http.StatusOK, c.Param("major"))
	})

	w := doRequest(r, http.MethodGet, "/files/logo.png")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "logo", w.Body.String())

	w = doRequest(r, http.MethodGet, "/v2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Body.String())
}

func TestContextRoute(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/users/:id", func(c *Context) {
		c.String(http.StatusOK, c.Route())
	})

	w := doRequest(r, http.MethodGet, "/users/7")
	assert.Equal(t, "/users/:id", w.Body.String())
}

func TestContextLoggerDefaultsToNoop(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/x", func(c *Context) {
		require.NotNil(t, c.Logger())
		c.Logger().Info("should be discarded")
		c.Status(http.StatusOK)
	})

	w := doRequest(r, http.MethodGet, "/x")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContextCancellationStopsChain(t *testing.T) {
	t.Parallel()
	r := MustNew()

	secondRan := false
	r.GET("/x",
		func(c *Context) {
			// Cancel mid-chain; the next handler must not run.
			ctx, cancel := context.WithCancel(c.Request.Context())
			cancel()
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		},
		func(c *Context) {
			secondRan = true
		},
	)

	doRequest(r, http.MethodGet, "/x")
	assert.False(t, secondRan)
}

func TestContextResetClearsState(t *testing.T) {
	t.Parallel()
	c := acquireContext()
	c.Bind("a", "1")
	c.BindCatchAll("rest")
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	c.routeTemplate = "/x"

	releaseContext(c)

	c2 := acquireContext()
	defer releaseContext(c2)
	assert.Equal(t, "", c2.Param("a"))
	_, ok := c2.CatchAll()
	assert.False(t, ok)
	assert.Equal(t, "", c2.Route())
}

func TestContextString(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/greet/:name", func(c *Context) {
		c.String(http.StatusOK, "hello %s", c.Param("name"))
	})

	w := doRequest(r, http.MethodGet, "/greet/ada")
	assert.Equal(t, "hello ada", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
