package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/filedepot/filedepot-api/internal/api/shared"
	"github.com/filedepot/filedepot-api/internal/domain"
	"github.com/filedepot/filedepot-api/internal/service/files"
	"github.com/filedepot/filedepot-api/internal/storage"
	"github.com/filedepot/filedepot-api/internal/task"
)

// FilesHandler handles upload, retrieval, listing, and visibility of files.
type FilesHandler struct {
	fileLane Submitter
	files    *files.Service
	blobs    *storage.Local
}

// NewFilesHandler creates a FilesHandler with the given dependencies.
func NewFilesHandler(fileLane Submitter, fileService *files.Service, blobs *storage.Local) *FilesHandler {
	return &FilesHandler{
		fileLane: fileLane,
		files:    fileService,
		blobs:    blobs,
	}
}

// Upload handles POST /files. The blob write and metadata insert happen on
// the file lane; image uploads additionally queue thumbnail derivation
// once the upload task succeeds.
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UploadFileRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Name == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing name")
		return
	}
	if !req.Type.Valid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid type")
		return
	}
	if req.Type != domain.TypeFolder && req.Data == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing data")
		return
	}

	handle, err := h.fileLane.Submit(task.UploadFilePayload{
		UserID:   userID,
		Name:     req.Name,
		Type:     req.Type,
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Internal server error", err)
		return
	}

	value, err := handle.Await(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	file := value.(*domain.File)

	if file.Type == domain.TypeImage {
		// Fire and forget: renditions are derived in the background and a
		// failed derivation is retried by resubmitting, not by failing the
		// upload.
		if _, err := h.fileLane.Submit(task.GenerateThumbnailsPayload{
			UserID: userID,
			FileID: file.ID.Hex(),
		}); err != nil {
			slog.Warn("failed to queue thumbnail generation",
				"file_id", file.ID.Hex(),
				"error", err)
		}
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, file.Public())
}

// Show handles GET /files/{id}.
func (h *FilesHandler) Show(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	file, err := h.files.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, file.Public())
}

// Index handles GET /files?parentId=&page=.
func (h *FilesHandler) Index(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	parentID := r.URL.Query().Get("parentId")

	var page int64
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid page")
			return
		}
		page = parsed
	}

	result, err := h.files.List(r.Context(), userID, parentID, page)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	public := make([]domain.PublicFile, 0, len(result))
	for i := range result {
		public = append(public, result[i].Public())
	}
	shared.RespondWithJSON(w, r, http.StatusOK, public)
}

// Publish handles PUT /files/{id}/publish.
func (h *FilesHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, true)
}

// Unpublish handles PUT /files/{id}/unpublish.
func (h *FilesHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, false)
}

func (h *FilesHandler) setVisibility(w http.ResponseWriter, r *http.Request, isPublic bool) {
	userID, ok := shared.GetUserID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	file, err := h.files.SetVisibility(r.Context(), userID, chi.URLParam(r, "id"), isPublic)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, file.Public())
}

// Data handles GET /files/{id}/data?size=. The requester may be anonymous;
// non-public files resolve to 404 for anyone but their owner so existence
// is never revealed.
func (h *FilesHandler) Data(w http.ResponseWriter, r *http.Request) {
	// Empty when unauthenticated; resolution treats that as "not the owner".
	userID, _ := shared.GetUserID(r.Context())

	file, err := h.files.GetForRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	var width int
	if raw := r.URL.Query().Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid size")
			return
		}
		width = parsed
	}

	path, err := h.files.ResolveReadPath(file, userID, width)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	data, err := h.blobs.Read(path)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusNotFound, "Not found", err)
		return
	}

	w.Header().Set("Content-Type", mimetype.Detect(data).String())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Debug("failed to write file data response", "error", err)
	}
}
