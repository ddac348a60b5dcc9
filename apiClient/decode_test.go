package apiclient

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResponse(code int, status, contentType, body string) *http.Response {
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &http.Response{
		StatusCode: code,
		Status:     status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestDecode_ErrorOutcome(t *testing.T) {
	tests := []struct {
		name    string
		resp    *http.Response
		message string
	}{
		{
			name:    "detail string",
			resp:    newResponse(404, "404 Not Found", "application/json", `{"detail":"Camera not found"}`),
			message: "Camera not found",
		},
		{
			name: "validation list",
			resp: newResponse(422, "422 Unprocessable Entity", "application/json",
				`{"detail":[{"loc":["body","name"],"msg":"Field required","type":"missing"},{"loc":["body"],"msg":"Value error, rtsp_url is required when connection_type is 'network'","type":"value_error"}]}`),
			message: "Field required; Value error, rtsp_url is required when connection_type is 'network'",
		},
		{
			name:    "detail object",
			resp:    newResponse(400, "400 Bad Request", "application/json", `{"detail": {"code": 7}}`),
			message: `{"code":7}`,
		},
		{
			name:    "body not json",
			resp:    newResponse(502, "502 Bad Gateway", "text/html", `<html>upstream down</html>`),
			message: "HTTP 502: Bad Gateway",
		},
		{
			name:    "json without detail",
			resp:    newResponse(500, "500 Internal Server Error", "application/json", `{"error":"boom"}`),
			message: "HTTP 500: Internal Server Error",
		},
		{
			name:    "null detail",
			resp:    newResponse(409, "409 Conflict", "application/json", `{"detail":null}`),
			message: "HTTP 409: Conflict",
		},
		{
			name:    "status line without reason",
			resp:    newResponse(503, "503", "", ""),
			message: "HTTP 503: Service Unavailable",
		},
		{
			name:    "redirect is not success",
			resp:    newResponse(304, "304 Not Modified", "", ""),
			message: "HTTP 304: Not Modified",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Decode(tt.resp)
			require.NoError(t, err)
			assert.Equal(t, KindError, res.Kind)
			require.NotNil(t, res.Err)
			assert.Equal(t, tt.message, res.Err.Error())
			assert.Equal(t, tt.resp.StatusCode, res.Err.StatusCode)
		})
	}
}

func TestDecode_EmptyOutcome(t *testing.T) {
	for _, code := range []int{http.StatusNoContent, http.StatusResetContent} {
		for _, ct := range []string{"", "application/json", "image/png"} {
			res, err := Decode(newResponse(code, http.StatusText(code), ct, `{"ignored":true}`))
			require.NoError(t, err)
			assert.Equal(t, KindEmpty, res.Kind, "code %d content type %q", code, ct)
			assert.Nil(t, res.Body)
			assert.Nil(t, res.Err)
		}
	}
}

func TestDecode_StructuredOutcome(t *testing.T) {
	for _, ct := range []string{
		"application/json",
		"application/json; charset=utf-8",
		"Application/JSON",
		"application/problem+json",
	} {
		body := `{"id":1,"name":"Porch"}`
		res, err := Decode(newResponse(200, "200 OK", ct, body))
		require.NoError(t, err)
		assert.Equal(t, KindStructured, res.Kind, ct)
		assert.JSONEq(t, body, string(res.Body))
	}
}

func TestDecode_BinaryOutcome(t *testing.T) {
	payload := string([]byte{0x52, 0x49, 0x46, 0x46, 0x00, 0xff, 0x57, 0x45, 0x42, 0x50})

	for _, ct := range []string{"image/webp", "video/mp4", "text/plain", ""} {
		res, err := Decode(newResponse(200, "200 OK", ct, payload))
		require.NoError(t, err)
		assert.Equal(t, KindBinary, res.Kind, ct)
		assert.Equal(t, []byte(payload), res.Body)
		assert.Equal(t, ct, res.ContentType)
	}
}

func TestDecode_ErrorBeatsNoContentAndContentType(t *testing.T) {
	res, err := Decode(newResponse(500, "500 Internal Server Error", "image/png", "not an image"))
	require.NoError(t, err)
	assert.Equal(t, KindError, res.Kind)
	assert.Equal(t, "HTTP 500: Internal Server Error", res.Err.Message)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "error", KindError.String())
	assert.Equal(t, "empty", KindEmpty.String())
	assert.Equal(t, "structured", KindStructured.String())
	assert.Equal(t, "binary", KindBinary.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func TestBlobExtension(t *testing.T) {
	assert.Equal(t, ".webp", Blob{ContentType: "image/webp"}.Extension())
	assert.Equal(t, ".jpg", Blob{ContentType: "image/jpeg"}.Extension())
	assert.Equal(t, ".mp4", Blob{ContentType: "video/mp4"}.Extension())
	assert.Equal(t, "", Blob{ContentType: ""}.Extension())

	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	assert.Equal(t, ".png", Blob{ContentType: "application/octet-stream", Data: png}.Extension())
	assert.Equal(t, ".png", Blob{Data: png}.Extension())
	assert.Equal(t, "", Blob{ContentType: "application/octet-stream", Data: []byte("plain")}.Extension())
}
