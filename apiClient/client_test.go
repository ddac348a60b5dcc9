package apiclient

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient(nil, nil)
	require.Error(t, err)

	_, err = NewClient(nil, &Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address is empty")

	c, err := NewClient(nil, &Config{Address: "192.168.88.79:8000"})
	require.NoError(t, err)
	assert.Equal(t, "http://192.168.88.79:8000", c.BaseURL().String())

	c, err = NewClient(nil, &Config{Address: "https://lapse.example.com/chronicle"})
	require.NoError(t, err)
	assert.Equal(t, "https", c.BaseURL().Scheme)
	assert.Nil(t, c.httpClient.Transport)
}

func TestNewClient_DigestTransport(t *testing.T) {
	c, err := NewClient(nil, &Config{Address: "localhost", Username: "maker", ApiKey: "secret"})
	require.NoError(t, err)
	assert.NotNil(t, c.httpClient.Transport)
}

func TestDispatch_DefaultHeaderAndOverride(t *testing.T) {
	c, mt := newTestClient(t)

	var got []string
	mt.RegisterResponder(http.MethodGet, endpoint("/api/v1/version"),
		func(req *http.Request) (*http.Response, error) {
			got = append(got, req.Header.Get("Content-Type"))
			return jsonResponder(200, `{"git_hash":"abc1234","git_hash_full":"abc1234def"}`)(req)
		})

	_, err := Dispatch[VersionInfo](t.Context(), c, "/api/v1/version")
	require.NoError(t, err)
	_, err = Dispatch[VersionInfo](t.Context(), c, "/api/v1/version",
		WithHeader("Content-Type", "text/plain"))
	require.NoError(t, err)

	assert.Equal(t, []string{"application/json", "text/plain"}, got)
}

func TestDispatch_ForwardsOptions(t *testing.T) {
	c, mt := newTestClient(t)

	mt.RegisterResponderWithQuery(http.MethodPut, endpoint("/api/v1/things"), "a=1&b=2",
		func(req *http.Request) (*http.Response, error) {
			body, _ := io.ReadAll(req.Body)
			assert.Equal(t, "raw body", string(body))
			assert.Equal(t, "yes", req.Header.Get("X-Edited"))
			return httpmock.NewStringResponse(http.StatusNoContent, ""), nil
		})

	_, err := Dispatch[NoContent](t.Context(), c, "/api/v1/things",
		WithMethod(http.MethodPut),
		WithBody(strings.NewReader("raw body")),
		WithQuery(url.Values{"a": {"1"}}),
		WithQuery(url.Values{"b": {"2"}}),
		WithRequestEditor(func(r *http.Request) { r.Header.Set("X-Edited", "yes") }),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, mt.GetTotalCallCount())
}

func TestDispatch_StructuredRoundTrip(t *testing.T) {
	c, mt := newTestClient(t)

	body := `{"id":3,"camera_id":1,"name":"Garden","interval_seconds":60,"status":"running",
		"started_at":"2025-05-01T06:00:00+00:00","ended_at":null,"created_at":"2025-05-01T05:59:00+00:00",
		"last_frame_id":77,"frame_count":120,"size_bytes":4096}`
	mt.RegisterResponder(http.MethodGet, endpoint("/api/v1/timelapses/3"), jsonResponder(200, body))

	tl, err := Dispatch[*Timelapse](t.Context(), c, "/api/v1/timelapses/3")
	require.NoError(t, err)
	require.NotNil(t, tl)
	assert.Equal(t, int64(3), tl.ID)
	assert.Equal(t, TimelapseRunning, tl.Status)
	require.NotNil(t, tl.StartedAt)
	assert.Nil(t, tl.EndedAt)
	require.NotNil(t, tl.LastFrameID)
	assert.Equal(t, int64(77), *tl.LastFrameID)
	assert.Equal(t, 120, tl.FrameCount)
}

func TestDispatch_ErrorOutcome(t *testing.T) {
	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodGet, endpoint("/api/v1/cameras/9"),
		jsonResponder(404, `{"detail":"Camera not found"}`))

	cam, err := Dispatch[*Camera](t.Context(), c, "/api/v1/cameras/9")
	require.Error(t, err)
	assert.Nil(t, cam)
	assert.Equal(t, "Camera not found", err.Error())
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestDispatch_EmptyOutcomeIsZero(t *testing.T) {
	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodGet, endpoint("/api/v1/cameras"),
		httpmock.NewStringResponder(http.StatusNoContent, ""))

	cams, err := Dispatch[[]Camera](t.Context(), c, "/api/v1/cameras")
	require.NoError(t, err)
	assert.Nil(t, cams)
}

func TestDispatch_BlobTarget(t *testing.T) {
	c, mt := newTestClient(t)
	payload := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}
	mt.RegisterResponder(http.MethodGet, endpoint("/api/v1/frames/5/image"),
		httpmock.NewBytesResponder(200, payload).HeaderSet(http.Header{
			"Content-Type":        {"image/jpeg"},
			"Content-Disposition": {`attachment; filename="image000005.jpg"`},
		}))

	blob, err := Dispatch[Blob](t.Context(), c, "/api/v1/frames/5/image")
	require.NoError(t, err)
	assert.Equal(t, payload, blob.Data)
	assert.Equal(t, "image/jpeg", blob.ContentType)
	assert.Equal(t, "image000005.jpg", blob.Filename)
}

func TestDispatch_UnexpectedBinary(t *testing.T) {
	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodGet, endpoint("/api/v1/settings"),
		httpmock.NewStringResponder(200, "<html></html>").HeaderSet(http.Header{"Content-Type": {"text/html"}}))

	_, err := Dispatch[*AppSettings](t.Context(), c, "/api/v1/settings")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedBinary)
}

func TestDispatch_DecodeFailurePropagates(t *testing.T) {
	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodGet, endpoint("/api/v1/cameras"),
		jsonResponder(200, `{"not":"a list"}`))

	cams, err := Dispatch[[]Camera](t.Context(), c, "/api/v1/cameras")
	require.Error(t, err)
	assert.Nil(t, cams)
	assert.Contains(t, err.Error(), "fail to decode")
	assert.False(t, IsNotFound(err))
}

func TestDispatch_NoContentDiscardsBody(t *testing.T) {
	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodDelete, endpoint("/api/v1/frames/1"),
		jsonResponder(200, `[1,2,3]`))

	_, err := Dispatch[NoContent](t.Context(), c, "/api/v1/frames/1", WithMethod(http.MethodDelete))
	require.NoError(t, err)
}

func TestDispatch_TransportFailure(t *testing.T) {
	c, mt := newTestClient(t)
	boom := errors.New("connection refused")
	mt.RegisterResponder(http.MethodGet, endpoint("/health"), httpmock.NewErrorResponder(boom))

	_, err := c.Health(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestDispatch_EncodeFailure(t *testing.T) {
	c, mt := newTestClient(t)

	_, err := Dispatch[NoContent](t.Context(), c, "/api/v1/frames",
		WithMethod(http.MethodPost), WithJSON(make(chan int)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fail to encode")
	assert.Zero(t, mt.GetTotalCallCount())
}

func TestDispatch_BasePathPrefix(t *testing.T) {
	c, err := NewClient(testLogger(), &Config{Address: "http://nas.local/chronicle"})
	require.NoError(t, err)
	mt := httpmock.NewMockTransport()
	c.httpClient.Transport = mt
	mt.RegisterResponder(http.MethodGet, "http://nas.local/chronicle/health", jsonResponder(200, `{"status":"ok"}`))

	h, err := c.Health(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
}

func TestGetVersion(t *testing.T) {
	c, mt := newTestClient(t)
	mt.RegisterResponder(http.MethodGet, endpoint("/api/v1/version"),
		jsonResponder(200, `{"git_hash":"a1b2c3d","git_hash_full":"a1b2c3d4e5f60718293a4b5c6d7e8f9012345678"}`))

	v, err := c.GetVersion(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d", v.GitHash)
	assert.Len(t, v.GitHashFull, 40)
}
