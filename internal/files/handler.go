package files

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cloudrelay/uploader/internal/response"
	"github.com/cloudrelay/uploader/internal/storage"
)

// multipart overhead allowed on top of the file size limit
const formOverhead = 1 << 20

// ListResponse is the body of a listing.
type ListResponse struct {
	Files []storage.ObjectSummary `json:"files"`
}

// DeleteResponse acknowledges a delete.
type DeleteResponse struct {
	Message  string `json:"message"`
	FileName string `json:"fileName"`
}

// UploadResponse acknowledges a direct upload.
type UploadResponse struct {
	Message  string `json:"message"`
	FileName string `json:"fileName"`
	Size     int64  `json:"size"`
}

// Handler holds HTTP handlers for file management endpoints.
type Handler struct {
	svc       *Service
	maxUpload int64
	logger    *zap.Logger
}

// NewHandler creates a new files Handler. maxUpload bounds direct upload
// request bodies.
func NewHandler(svc *Service, maxUpload int64, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, maxUpload: maxUpload, logger: logger}
}

// List godoc
//
//	@Summary		List files
//	@Description	Lists the objects of the provider's bucket. Only the first page the provider returns is listed.
//	@Tags			files
//	@Produce		json
//	@Param			provider	path		string	true	"Provider"	Enums(s3, minio, gcs)
//	@Success		200			{object}	ListResponse
//	@Failure		500			{object}	response.ErrorBody
//	@Failure		503			{object}	response.ErrorBody
//	@Router			/{provider}/files [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	objects, err := h.svc.List(r.Context(), chi.URLParam(r, "provider"))
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.OK(w, ListResponse{Files: objects})
}

// Delete godoc
//
//	@Summary		Delete a file
//	@Tags			files
//	@Produce		json
//	@Param			provider	path		string	true	"Provider"	Enums(s3, minio, gcs)
//	@Param			key			query		string	true	"Object key"
//	@Success		200			{object}	DeleteResponse
//	@Failure		400			{object}	response.ErrorBody
//	@Failure		404			{object}	response.ErrorBody
//	@Failure		500			{object}	response.ErrorBody
//	@Failure		503			{object}	response.ErrorBody
//	@Router			/{provider}/files [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	key, err := h.svc.Delete(r.Context(), chi.URLParam(r, "provider"), r.URL.Query().Get("key"))
	if err != nil {
		response.Fail(w, err)
		return
	}
	response.OK(w, DeleteResponse{Message: "File deleted successfully", FileName: key})
}

// Download godoc
//
//	@Summary		Download a file through the backend
//	@Tags			files
//	@Produce		octet-stream
//	@Param			provider	path		string	true	"Provider"	Enums(s3, minio, gcs)
//	@Param			key			query		string	true	"Object key"
//	@Success		200			{file}		binary
//	@Failure		400			{object}	response.ErrorBody
//	@Failure		404			{object}	response.ErrorBody
//	@Failure		500			{object}	response.ErrorBody
//	@Failure		503			{object}	response.ErrorBody
//	@Router			/{provider}/files/download [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	key := strings.TrimSpace(r.URL.Query().Get("key"))
	obj, err := h.svc.Get(r.Context(), provider, key)
	if err != nil {
		response.Fail(w, err)
		return
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	if obj.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	// Headers are sent; a failure now can only be logged.
	if _, err := io.Copy(w, obj.Body); err != nil {
		h.logger.Error("download stream failed",
			zap.String("provider", provider),
			zap.String("key", key),
			zap.Error(err))
	}
}

// Upload godoc
//
//	@Summary		Upload a file through the backend
//	@Description	Multipart upload in field "file". Same image and size rules as presigned uploads.
//	@Tags			files
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			provider	path		string	true	"Provider"	Enums(s3, minio, gcs)
//	@Param			file		formData	file	true	"Image"
//	@Success		201			{object}	UploadResponse
//	@Failure		400			{object}	response.ErrorBody
//	@Failure		500			{object}	response.ErrorBody
//	@Failure		503			{object}	response.ErrorBody
//	@Router			/{provider}/files [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+formOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BadRequest(w, "file too large")
			return
		}
		response.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	key, err := h.svc.Upload(r.Context(), chi.URLParam(r, "provider"), Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.Created(w, UploadResponse{
		Message:  "File uploaded successfully",
		FileName: key,
		Size:     header.Size,
	})
}
