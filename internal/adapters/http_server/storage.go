package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"tourism_booking/internal/adapters/observability"
	"tourism_booking/internal/domain"
)

const sniffLen = 512

// upload accepts multipart field "file" plus optional "bucket" and "name".
// The declared type is ignored; the content is sniffed.
func (h *Handlers) upload(w http.ResponseWriter, r *http.Request) {
	max := h.Media.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, max+1<<20)
	if err := r.ParseMultipartForm(max); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			observability.ObserveUpload("rejected")
			writeError(w, r, fmt.Errorf("%w: request exceeds %d bytes", domain.ErrFileTooLarge, max))
			return
		}
		writeError(w, r, domain.Invalid("file", "multipart form expected"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, domain.Invalid("file", "required"))
		return
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		writeError(w, r, err)
		return
	}
	head = head[:n]
	ct := http.DetectContentType(head)

	res, err := h.Media.Upload(r.Context(),
		r.FormValue("bucket"), r.FormValue("name"), ct,
		io.MultiReader(bytes.NewReader(head), f), hdr.Size)
	if err != nil {
		if s := StatusOf(err); s >= 400 && s < 500 {
			observability.ObserveUpload("rejected")
		} else {
			observability.ObserveUpload("error")
		}
		writeError(w, r, err)
		return
	}
	observability.ObserveUpload("ok")
	log.Info().Str("bucket", res.Bucket).Str("path", res.Path).Int64("size", hdr.Size).Msg("object uploaded")
	writeJSON(w, http.StatusOK, res)
}

// deleteObject takes ?path=&bucket=; path may be a public URL.
func (h *Handlers) deleteObject(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p, bucket := strings.TrimSpace(q.Get("path")), strings.TrimSpace(q.Get("bucket"))
	if p == "" && r.ContentLength > 0 {
		var body struct {
			Path   string `json:"path"`
			Bucket string `json:"bucket"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, r, err)
			return
		}
		p, bucket = body.Path, body.Bucket
	}
	if err := h.Media.Delete(r.Context(), p, bucket); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
