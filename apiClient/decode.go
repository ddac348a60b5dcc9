package apiclient

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/h2non/filetype"
)

type Kind int

const (
	KindError Kind = iota
	KindEmpty
	KindStructured
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindEmpty:
		return "empty"
	case KindStructured:
		return "structured"
	case KindBinary:
		return "binary"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Result is the decoded outcome of one response. Exactly one of Err (for
// KindError) or Body (for KindStructured and KindBinary) is meaningful.
type Result struct {
	Kind        Kind
	Err         *APIError
	Body        []byte
	ContentType string
	Header      http.Header
}

// Blob is an opaque payload returned for non-JSON responses such as frame
// images, test captures and export downloads.
type Blob struct {
	ContentType string
	// Filename comes from Content-Disposition when the server sends one.
	Filename string
	Data     []byte
}

// NoContent is the expected type of calls whose body is not used.
type NoContent struct{}

// Decode classifies resp in a fixed order: failure status first, then the
// no-content statuses, then the declared content type. The body is always
// consumed. Only a failure to read the body is returned as an error.
func Decode(resp *http.Response) (*Result, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fail to read resp body: %w", err)
	}

	contentType := resp.Header.Get(headerContentType)
	res := &Result{
		ContentType: contentType,
		Header:      resp.Header,
	}

	switch {
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		res.Kind = KindError
		res.Err = newAPIError(resp, data)
	case resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusResetContent:
		res.Kind = KindEmpty
	case isJSON(contentType):
		res.Kind = KindStructured
		res.Body = data
	default:
		res.Kind = KindBinary
		res.Body = data
	}
	return res, nil
}

// isJSON matches application/json and structured +json media types.
func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		// keep going with the raw value, servers are sloppy with parameters
		mediaType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mediaType == contentTypeJSON || strings.HasSuffix(mediaType, "+json")
}

func newBlob(res *Result) Blob {
	blob := Blob{
		ContentType: res.ContentType,
		Data:        res.Body,
	}
	if cd := res.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			blob.Filename = params["filename"]
		}
	}
	return blob
}

var knownExtensions = map[string]string{
	"image/webp": ".webp",
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"video/webm": ".webm",
	"video/mp4":  ".mp4",
}

// Extension guesses a file extension from the content type, or "" when
// nothing fits.
func (b Blob) Extension() string {
	mediaType, _, err := mime.ParseMediaType(b.ContentType)
	if err != nil || mediaType == "application/octet-stream" {
		return b.sniffExtension()
	}
	if ext, ok := knownExtensions[mediaType]; ok {
		return ext
	}
	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}

// sniffExtension falls back to the payload's magic bytes.
func (b Blob) sniffExtension() string {
	kind, err := filetype.Match(b.Data)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return "." + kind.Extension
}

// errorBody is the error envelope produced by the service. Detail is usually
// a string, validation failures send a list of {loc, msg, type} objects.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}
