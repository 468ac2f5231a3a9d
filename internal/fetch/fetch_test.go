package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake content"))
	}))
	defer server.Close()

	result, err := Document(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, []byte("%PDF-1.4 fake content"), result.Body)
}

func TestDocument_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := Document(context.Background(), server.URL, nil)
	require.Error(t, err)

	var fetchErr *Error
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, server.URL, fetchErr.URL)
	// Result still carries the status for diagnostics
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
}

func TestDocument_InvalidURL(t *testing.T) {
	_, err := Document(context.Background(), "not-a-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	require.True(t, errors.As(err, &fetchErr))
	assert.Contains(t, fetchErr.Message, "invalid URL")
}

func TestDocument_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Document(ctx, server.URL, nil)
	require.Error(t, err)
}

func TestExtractMainText(t *testing.T) {
	html := `<html><head><script>junk()</script></head><body>
		<nav>Home | About</nav>
		<main><h1>Jane Doe</h1><p>Software   Engineer with 5 years of Go.</p></main>
		<footer>Copyright</footer>
	</body></html>`

	text, err := ExtractMainText(html, ResumePageSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Software Engineer with 5 years of Go.")
	assert.NotContains(t, text, "Copyright")
	assert.NotContains(t, text, "junk()")
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	html := `<html><body><div>plain resume text</div></body></html>`

	text, err := ExtractMainText(html, ResumePageSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "plain resume text")
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("short"))
	assert.True(t, ShouldUseBrowser(""))

	long := make([]byte, 0, 400)
	for i := 0; i < 400; i++ {
		long = append(long, 'a')
	}
	assert.False(t, ShouldUseBrowser(string(long)))
}
