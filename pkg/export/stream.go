package export

import (
	"io"
	"mime"
	"net/http"
	"os"
	"strconv"
)

// DefaultMimeType is sent when no MIME type is configured.
const DefaultMimeType = "application/octet-stream"

// SendOptions controls how a document is delivered.
type SendOptions struct {
	// MimeType is the Content-Type of the response. Default: application/octet-stream.
	MimeType string

	// Inline asks the client to display the document instead of downloading it.
	Inline bool
}

func (o SendOptions) mimeType() string {
	if o.MimeType == "" {
		return DefaultMimeType
	}
	return o.MimeType
}

// Responder delivers a serialized document to the caller.
type Responder interface {
	// SendStream streams size bytes from body as a file named name.
	SendStream(name string, size int64, body io.Reader, opts SendOptions) error
}

// HTTPResponder sends documents as HTTP file responses.
type HTTPResponder struct {
	w http.ResponseWriter
}

// NewHTTPResponder creates a Responder writing to w.
func NewHTTPResponder(w http.ResponseWriter) *HTTPResponder {
	return &HTTPResponder{w: w}
}

// SendStream implements Responder. It writes a 200 response with
// Content-Type, Content-Length and Content-Disposition headers.
func (h *HTTPResponder) SendStream(name string, size int64, body io.Reader, opts SendOptions) error {
	header := h.w.Header()
	header.Set("Content-Type", opts.mimeType())
	header.Set("Content-Disposition", ContentDisposition(name, opts.Inline))
	header.Set("Content-Length", strconv.FormatInt(size, 10))
	header.Set("Cache-Control", "no-store")
	header.Set("X-Content-Type-Options", "nosniff")

	h.w.WriteHeader(http.StatusOK)
	_, err := io.CopyN(h.w, body, size)
	return err
}

// ContentDisposition formats a Content-Disposition header value for a file.
func ContentDisposition(name string, inline bool) string {
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	if name == "" {
		return disposition
	}
	v := mime.FormatMediaType(disposition, map[string]string{"filename": name})
	if v == "" {
		return disposition
	}
	return v
}

// WriterResponder copies documents to an io.Writer. The CLI uses it to write
// exports to files or stdout.
type WriterResponder struct {
	W io.Writer

	// Name and Options record the last document sent.
	Name    string
	Options SendOptions
}

// SendStream implements Responder.
func (wr *WriterResponder) SendStream(name string, size int64, body io.Reader, opts SendOptions) error {
	wr.Name = name
	wr.Options = opts
	_, err := io.CopyN(wr.W, body, size)
	return err
}

// TempFilePattern is the name pattern of transient export files.
const TempFilePattern = "gridexport-*.tmp"

// createTempFile opens a new transient file in dir (os.TempDir when empty).
func createTempFile(dir string) (*os.File, error) {
	f, err := os.CreateTemp(dir, TempFilePattern)
	if err != nil {
		if dir == "" {
			dir = os.TempDir()
		}
		return nil, NewTempFileCreationError(dir, err)
	}
	return f, nil
}

// releaseTempFile closes and removes f.
func releaseTempFile(f *os.File) error {
	closeErr := f.Close()
	if err := os.Remove(f.Name()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return closeErr
}
