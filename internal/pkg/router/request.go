package router

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/lankagov/gnportal/internal/pkg/goerror"
)

// DateLayout is the wire format of calendar dates in paths and queries.
const DateLayout = "2006-01-02"

const maxJSONBodyBytes = 1 << 20

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	*http.Request
}

func (r *Request) GetParam(key string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(key)
}

func (r *Request) GetParamInt64(key string) (int64, error) {
	value, err := strconv.ParseInt(r.GetParam(key), 10, 64)
	if err != nil || value <= 0 {
		return 0, goerror.NewInvalidFormat("Invalid path parameter " + key)
	}
	return value, nil
}

func (r *Request) GetQuery(key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// GetQueryDate parses key as a DateLayout date. A missing value returns the
// zero time and no error.
func (r *Request) GetQueryDate(key string) (time.Time, error) {
	v := r.GetQuery(key)
	if v == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, goerror.NewInvalidFormat("Invalid query " + key + ", expected YYYY-MM-DD")
	}
	return t, nil
}

// DecodeBody decodes exactly one JSON object into dst and rejects unknown
// fields.
func (r *Request) DecodeBody(dst any) error {
	if r.Body == nil {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return goerror.NewInvalidFormat()
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat()
	}
	return nil
}

// ClientIP is the caller address resolved by the IP middleware.
func (r *Request) ClientIP() string {
	return r.RemoteAddr
}

// HeaderValue returns a trimmed header value.
func (r *Request) HeaderValue(key string) string {
	return strings.TrimSpace(r.Header.Get(key))
}

// FormFile is one uploaded file together with the other form fields.
type FormFile struct {
	File        multipart.File
	Filename    string
	ContentType string
	Size        int64
	Fields      map[string]string
}

// ParseFormFile reads a multipart form of at most maxBytes and returns the
// file posted under name. The caller closes File.
func (r *Request) ParseFormFile(name string, maxBytes int64) (*FormFile, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, goerror.NewInvalidFormat("Invalid request content-type")
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes+1<<20)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, goerror.NewInvalidInput(nil, name, "file is too large")
		}
		return nil, goerror.NewInvalidFormat()
	}

	file, header, err := r.FormFile(name)
	if err != nil {
		return nil, goerror.NewInvalidInput(nil, name, "file is required")
	}

	fields := make(map[string]string, len(r.MultipartForm.Value))
	for k, v := range r.MultipartForm.Value {
		if len(v) > 0 {
			fields[k] = strings.TrimSpace(v[0])
		}
	}

	return &FormFile{
		File:        file,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Fields:      fields,
	}, nil
}
