package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDo_InjectsDefaults(t *testing.T) {
	t.Parallel()

	// Arrange: a server echoing the headers it received
	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(5 * time.Second).WithHeaders(map[string]string{
		"Accept":  "application/json",
		"Referer": "https://finance.yahoo.com/",
	})
	c.UserAgent = BrowserUserAgent

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL, http.NoBody)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/plain")

	// Act
	res, err := c.Do(req)
	require.NoError(t, err)
	res.Body.Close()

	// Assert: defaults fill gaps, explicit headers win
	got := <-headers
	require.Equal(t, BrowserUserAgent, got.Get("User-Agent"))
	require.Equal(t, "https://finance.yahoo.com/", got.Get("Referer"))
	require.Equal(t, "text/plain", got.Get("Accept"))
}

func TestWithHeaders_DoesNotMutateParent(t *testing.T) {
	t.Parallel()

	parent := New(time.Second)
	parent.Headers = map[string]string{"A": "1"}
	child := parent.WithHeaders(map[string]string{"B": "2"})

	require.Equal(t, map[string]string{"A": "1"}, parent.Headers)
	require.Equal(t, map[string]string{"A": "1", "B": "2"}, child.Headers)
	require.Same(t, parent.HTTP, child.HTTP)
}
