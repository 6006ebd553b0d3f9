// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"autoparc/internal/imaging"
	"autoparc/internal/middleware"
	"autoparc/internal/storage"
)

// uploadField is the multipart field carrying the image.
const uploadField = "image"

// Upload stores listing and showroom images.
type Upload struct {
	store storage.Uploader
}

// NewUpload creates the Upload handler backed by s (S3 or local disk).
func NewUpload(s storage.Uploader) *Upload {
	return &Upload{store: s}
}

// Image accepts one JPEG, PNG or WebP image and returns where it is served.
func (h *Upload) Image(w http.ResponseWriter, r *http.Request) {
	// Limit request body to the image cap plus some overhead for form fields.
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxBytes+64<<10)
	if err := r.ParseMultipartForm(imaging.MaxBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeMessage(w, http.StatusRequestEntityTooLarge, "Image trop volumineuse (10 Mo maximum)")
			return
		}
		writeMessage(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, imaging.MaxBytes+1))
	if err != nil {
		serverError(w, r, "read upload", err)
		return
	}

	info, err := imaging.Validate(header.Filename, data)
	if errors.Is(err, imaging.ErrTooLarge) {
		writeMessage(w, http.StatusRequestEntityTooLarge, "Image trop volumineuse (10 Mo maximum)")
		return
	}
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Images only!")
		return
	}
	// The sniffed type must agree with the decoded format.
	if sniffed := http.DetectContentType(data); sniffed != info.ContentType {
		writeMessage(w, http.StatusBadRequest, "Images only!")
		return
	}

	key := storage.NewKey(uploadField, info.Ext)
	ref, err := h.store.Upload(r.Context(), key, info.ContentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		serverError(w, r, "store upload", err)
		return
	}

	var uploader any
	if u := middleware.UserFromCtx(r.Context()); u != nil {
		uploader = u.ID
	}
	slog.Info("image uploaded", "key", key, "bytes", len(data), "width", info.Width, "height", info.Height, "user_id", uploader)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Image uploaded", "filePath": ref})
}
