package netx

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
)

// Form is an encoded multipart/form-data request body.
type Form struct {
	Body        *bytes.Buffer
	ContentType string
}

// NewFileForm encodes r as a single file part named field. The part carries
// partType as its own Content-Type instead of application/octet-stream.
func NewFileForm(field, filename, partType string, r io.Reader) (*Form, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     field,
		"filename": filename,
	}))
	h.Set("Content-Type", partType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("write %s part: %w", field, err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return &Form{Body: buf, ContentType: w.FormDataContentType()}, nil
}
