package presign

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cloudrelay/uploader/internal/response"
)

const maxBodyBytes = 1 << 20

// UploadBody is the JSON body of an upload presign request.
type UploadBody struct {
	FileName string `json:"fileName"`
	FileType string `json:"fileType,omitempty"`
	FileSize *int64 `json:"fileSize,omitempty"`
}

// FileBody is the JSON body of a download or delete presign request.
type FileBody struct {
	FileName string `json:"fileName"`
}

// GrantResponse is returned for every issued URL.
type GrantResponse struct {
	PresignedURL string `json:"presignedUrl"`
	FileName     string `json:"fileName"`
	ExpiresIn    int    `json:"expiresIn"`
	Message      string `json:"message"`
}

// CompletionBody is the JSON body of an upload-completion notice.
type CompletionBody struct {
	FileName   string `json:"fileName"`
	FileSize   *int64 `json:"fileSize,omitempty"`
	UploadTime string `json:"uploadTime,omitempty"`
}

// CompletionResponse acknowledges a completion notice.
type CompletionResponse struct {
	Message    string    `json:"message"`
	FileName   string    `json:"fileName"`
	RecordedAt time.Time `json:"recordedAt"`
}

// Handler holds HTTP handlers for presign endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new presign Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// IssueUpload godoc
//
//	@Summary		Presign an upload
//	@Description	Returns a PUT URL valid for 3600 seconds. The object key is the file name prefixed with a millisecond timestamp.
//	@Tags			presign
//	@Accept			json
//	@Produce		json
//	@Param			provider	path		string		true	"Provider"	Enums(s3, minio, gcs)
//	@Param			body		body		UploadBody	true	"File to upload"
//	@Success		200			{object}	GrantResponse
//	@Failure		400			{object}	response.ErrorBody
//	@Failure		500			{object}	response.ErrorBody
//	@Failure		503			{object}	response.ErrorBody
//	@Router			/{provider}/presign/upload [post]
func (h *Handler) IssueUpload(w http.ResponseWriter, r *http.Request) {
	var body UploadBody
	if err := decode(w, r, &body); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	grant, err := h.svc.IssueUpload(r.Context(), chi.URLParam(r, "provider"), UploadRequest{
		FileName: body.FileName,
		FileType: body.FileType,
		FileSize: body.FileSize,
	})
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.OK(w, grantResponse(grant, "Presigned upload URL generated successfully"))
}

// IssueDownload godoc
//
//	@Summary		Presign a download
//	@Description	Returns a GET URL valid for 900 seconds.
//	@Tags			presign
//	@Accept			json
//	@Produce		json
//	@Param			provider	path		string		true	"Provider"	Enums(s3, minio, gcs)
//	@Param			body		body		FileBody	true	"Object key"
//	@Success		200			{object}	GrantResponse
//	@Failure		400			{object}	response.ErrorBody
//	@Failure		500			{object}	response.ErrorBody
//	@Failure		503			{object}	response.ErrorBody
//	@Router			/{provider}/presign/download [post]
func (h *Handler) IssueDownload(w http.ResponseWriter, r *http.Request) {
	var body FileBody
	if err := decode(w, r, &body); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	grant, err := h.svc.IssueDownload(r.Context(), chi.URLParam(r, "provider"), body.FileName)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.OK(w, grantResponse(grant, "Presigned download URL generated successfully"))
}

// IssueDelete godoc
//
//	@Summary		Presign a delete
//	@Description	Returns a DELETE URL valid for 300 seconds. The object must exist.
//	@Tags			presign
//	@Accept			json
//	@Produce		json
//	@Param			provider	path		string		true	"Provider"	Enums(s3, minio, gcs)
//	@Param			body		body		FileBody	true	"Object key"
//	@Success		200			{object}	GrantResponse
//	@Failure		400			{object}	response.ErrorBody
//	@Failure		404			{object}	response.ErrorBody
//	@Failure		500			{object}	response.ErrorBody
//	@Failure		503			{object}	response.ErrorBody
//	@Router			/{provider}/presign/delete [post]
func (h *Handler) IssueDelete(w http.ResponseWriter, r *http.Request) {
	var body FileBody
	if err := decode(w, r, &body); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	grant, err := h.svc.IssueDelete(r.Context(), chi.URLParam(r, "provider"), body.FileName)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.OK(w, grantResponse(grant, "Presigned delete URL generated successfully"))
}

// RecordCompletion godoc
//
//	@Summary		Report a finished upload
//	@Description	Advisory only; the upload succeeded regardless of this call.
//	@Tags			presign
//	@Accept			json
//	@Produce		json
//	@Param			provider	path		string			true	"Provider"	Enums(s3, minio, gcs)
//	@Param			body		body		CompletionBody	true	"Completed upload"
//	@Success		200			{object}	CompletionResponse
//	@Failure		400			{object}	response.ErrorBody
//	@Router			/{provider}/uploads/complete [post]
func (h *Handler) RecordCompletion(w http.ResponseWriter, r *http.Request) {
	var body CompletionBody
	if err := decode(w, r, &body); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	ack, err := h.svc.RecordCompletion(r.Context(), chi.URLParam(r, "provider"), Notice{
		FileName:   body.FileName,
		FileSize:   body.FileSize,
		UploadTime: body.UploadTime,
	})
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.OK(w, CompletionResponse{
		Message:    ack.Message,
		FileName:   ack.FileName,
		RecordedAt: ack.RecordedAt,
	})
}

func grantResponse(g *Grant, message string) GrantResponse {
	return GrantResponse{
		PresignedURL: g.URL,
		FileName:     g.ObjectKey,
		ExpiresIn:    g.ExpiresInSeconds(),
		Message:      message,
	}
}

// decode reads a JSON body. An empty body decodes to the zero value so the
// service reports the missing fields.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
