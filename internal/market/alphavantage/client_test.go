package alphavantage_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"marketwatch/internal/market/alphavantage"
)

// okResponse encodes body as a 200 JSON response.
func okResponse(t *testing.T, body any) *http.Response {
	t.Helper()
	buffer := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buffer).Encode(body))
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(buffer),
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	// Assert: a valid key should return a client.
	client, err := alphavantage.NewClient("test")
	require.NoErrorf(t, err, "unexpected error: %v", err)
	require.NotNilf(t, client, "unexpected nil client")
}

func TestWithBaseURL(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock http client
	httpClient := NewMockHTTPClient(ctrl)

	// Arrange: define a base url
	baseURL := "http://localhost:8080"

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Truef(t, strings.HasPrefix(req.URL.String(), baseURL), "expected url to start with base url, received: %s", req.URL.String())
			return okResponse(t, map[string]any{}), nil
		}).
		Times(1)

	// Arrange: create a new client.
	client, err := alphavantage.NewClient("test", alphavantage.WithHTTPClient(httpClient), alphavantage.WithBaseURL(baseURL))
	require.NoError(t, err)

	// Act: call GetGlobalQuote with the overridden base URL.
	_, err = client.GetGlobalQuote(t.Context(), "IBM")
	require.NoError(t, err)
}

func TestWithHeader(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock http client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method to check the header
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "bar", req.Header.Get("foo"))
			return okResponse(t, map[string]any{}), nil
		}).
		Times(1)

	// Arrange: create a new client with a custom header.
	client, err := alphavantage.NewClient("test", alphavantage.WithHTTPClient(httpClient), alphavantage.WithHeader(http.Header{
		"foo": []string{"bar"},
	}))
	require.NoError(t, err)

	// Act: call GetGlobalQuote with the custom header.
	_, err = client.GetGlobalQuote(t.Context(), "IBM")
	require.NoError(t, err)
}

func TestPerCallOptionDoesNotLeak(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: the first call carries the per-call header, the second does not.
	gomock.InOrder(
		httpClient.EXPECT().
			Do(gomock.Any()).
			DoAndReturn(func(req *http.Request) (*http.Response, error) {
				require.Equal(t, "1", req.Header.Get("X-Once"))
				return okResponse(t, map[string]any{}), nil
			}),
		httpClient.EXPECT().
			Do(gomock.Any()).
			DoAndReturn(func(req *http.Request) (*http.Response, error) {
				require.Empty(t, req.Header.Get("X-Once"))
				return okResponse(t, map[string]any{}), nil
			}),
	)

	client, err := alphavantage.NewClient("test", alphavantage.WithHTTPClient(httpClient))
	require.NoError(t, err)

	_, err = client.GetGlobalQuote(t.Context(), "IBM", alphavantage.WithHeader(http.Header{"X-Once": []string{"1"}}))
	require.NoError(t, err)
	_, err = client.GetGlobalQuote(t.Context(), "IBM")
	require.NoError(t, err)
}
