package news_test

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"marketwatch/internal/news"
)

func fixtureResponse(t *testing.T, name string) *http.Response {
	t.Helper()
	f, err := os.Open(filepath.Join("fixtures", name))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return &http.Response{StatusCode: http.StatusOK, Body: f}
}

func TestClient_Latest(t *testing.T) {
	t.Parallel()

	// Arrange
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "http://news.test/data/v2/news/", req.URL.Scheme+"://"+req.URL.Host+req.URL.Path)
			require.Equal(t, "EN", req.URL.Query().Get("lang"))
			require.Equal(t, "latest", req.URL.Query().Get("sortOrder"))
			require.Equal(t, "secret", req.URL.Query().Get("api_key"))
			return fixtureResponse(t, "latest.json"), nil
		})
	client := news.NewClient(
		news.WithBaseURL("http://news.test"),
		news.WithHTTPClient(httpClient),
		news.WithAPIKey("secret"),
	)

	// Act
	res, err := client.Latest(t.Context())

	// Assert
	require.NoError(t, err)
	require.False(t, res.HasWarning)
	require.Len(t, res.Data, 3)
	first := res.Data[0]
	require.Equal(t, "41230011", first.ID)
	require.Equal(t, int64(1749988800), first.PublishedOn)
	require.Equal(t, "Example Wire", first.Source.Name)
	require.Equal(t, "Bitcoin|ETF|Markets", first.Tags)
}

func TestClient_Latest_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		res  *http.Response
		err  error
		want string
	}{
		{
			name: "transport",
			err:  errors.New("connection refused"),
			want: "performing request",
		},
		{
			name: "status",
			res:  &http.Response{StatusCode: http.StatusServiceUnavailable, Body: io.NopCloser(strings.NewReader("down"))},
			want: "unexpected status code 503",
		},
		{
			name: "decode",
			res:  &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("{"))},
			want: "decoding response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			httpClient := NewMockHTTPClient(ctrl)
			httpClient.EXPECT().Do(gomock.Any()).Return(tt.res, tt.err)

			_, err := news.NewClient(news.WithHTTPClient(httpClient)).Latest(t.Context())

			require.ErrorContains(t, err, tt.want)
		})
	}
}
