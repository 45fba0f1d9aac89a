package storage

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Handler exposes the media upload endpoints used by instructor tooling.
type Handler struct {
	uploader Uploader
	logger   *slog.Logger
	auth     func(huma.Context, func(huma.Context))
}

// NewHandler creates a new upload handler. auth is the instructor role
// guard; every upload surface belongs to course authoring.
func NewHandler(uploader Uploader, logger *slog.Logger, auth func(huma.Context, func(huma.Context))) *Handler {
	return &Handler{uploader: uploader, logger: logger, auth: auth}
}

// RegisterRoutes sets up one upload endpoint per media kind.
func (h *Handler) RegisterRoutes(api huma.API) {
	guard := huma.Middlewares{h.auth}
	bearer := []map[string][]string{{"bearer": {}}}

	huma.Register(api, huma.Operation{
		OperationID: "upload-thumbnail",
		Method:      http.MethodPost,
		Path:        "/instructors/uploads/thumbnails",
		Summary:     "Upload a course thumbnail",
		Security:    bearer,
		Middlewares: guard,
	}, h.uploadHandler(Buckets.Thumbnails))

	huma.Register(api, huma.Operation{
		OperationID: "upload-video",
		Method:      http.MethodPost,
		Path:        "/instructors/uploads/videos",
		Summary:     "Upload a lecture or demo video",
		Security:    bearer,
		Middlewares: guard,
	}, h.uploadHandler(Buckets.Videos))

	huma.Register(api, huma.Operation{
		OperationID: "upload-document",
		Method:      http.MethodPost,
		Path:        "/instructors/uploads/documents",
		Summary:     "Upload an instructor verification document",
		Security:    bearer,
		Middlewares: guard,
	}, h.uploadHandler(Buckets.Documents))
}

// UploadFormData is the multipart payload: a single file field.
type UploadFormData struct {
	File huma.FormFile `form:"file" contentType:"application/octet-stream" required:"true"`
}

type UploadRequest struct {
	RawBody huma.MultipartFormFiles[UploadFormData]
}

type UploadResponse struct {
	Body struct {
		URL string `json:"url"`
	}
}

func (h *Handler) uploadHandler(bucket string) func(context.Context, *UploadRequest) (*UploadResponse, error) {
	return func(ctx context.Context, input *UploadRequest) (*UploadResponse, error) {
		file := input.RawBody.Data().File
		if !file.IsSet {
			return nil, huma.Error400BadRequest("file is required")
		}
		defer file.Close()

		url, err := h.uploader.Upload(ctx, bucket, file.Filename, file.ContentType, file.Size, file)
		if err != nil {
			h.logger.Error("upload failed", "bucket", bucket, "filename", file.Filename, "error", err)
			return nil, huma.Error500InternalServerError("upload failed")
		}

		h.logger.Info("media uploaded", "bucket", bucket, "url", url)
		resp := &UploadResponse{}
		resp.Body.URL = url
		return resp, nil
	}
}
