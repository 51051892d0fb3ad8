package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kadrportal/media/pkg/csrf"
	"github.com/kadrportal/media/pkg/imagestore"
	"github.com/kadrportal/media/pkg/session"
	"github.com/kadrportal/media/pkg/sniff"
	"github.com/kadrportal/media/pkg/thumbnail"
	"github.com/kadrportal/media/pkg/uploads"
)

// Handler serves the upload staging API.
type Handler struct {
	registry *uploads.Registry
	guard    *csrf.Guard
	auth     Authenticator
	log      *slog.Logger
}

// NewHandler wires the upload API over the registry. A nil auth falls back to
// SessionAuthenticator, a nil log to a discard logger.
func NewHandler(registry *uploads.Registry, guard *csrf.Guard, auth Authenticator, log *slog.Logger) *Handler {
	if auth == nil {
		auth = SessionAuthenticator{}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{registry: registry, guard: guard, auth: auth, log: log}
}

// Upload accepts one multipart image in the "image" field, stages it for the
// session and returns the descriptor plus the remaining capacity.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	sid, ok := session.IDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	if err := r.ParseMultipartForm(maxRequestSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusUnprocessableEntity, "The file exceeds the 5 MB size limit.")
			return
		}
		writeError(w, http.StatusBadRequest, "Malformed upload request.")
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "No file found in the request.")
		return
	}

	desc, remaining, err := h.registry.Accept(r.Context(), sid, files[0])
	if err != nil {
		h.log.Warn("upload rejected",
			slog.String("session", sid),
			slog.Any("error", err),
		)
		writeError(w, http.StatusUnprocessableEntity, rejectionMessage(err))
		return
	}

	h.log.Info("upload accepted",
		slog.String("session", sid),
		slog.String("id", desc.ID),
		slog.Int("remaining", remaining),
	)

	writeJSON(w, http.StatusOK, uploadResponse{Success: true, Image: desc, Remaining: remaining})
}

// Delete removes the staged image named by the "id" form field.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sid, ok := session.IDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	id := r.FormValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "No file specified for deletion.")
		return
	}

	removed, err := h.registry.Remove(r.Context(), sid, id)
	if err != nil {
		h.log.Error("remove failed",
			slog.String("session", sid),
			slog.String("id", id),
			slog.Any("error", err),
		)
		writeError(w, http.StatusInternalServerError, "Failed to delete the file.")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "File not found or already deleted.")
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{Success: true, ID: id})
}

// List returns the session's staged images in acceptance order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sid, ok := session.IDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	images, err := h.registry.List(r.Context(), sid)
	if err != nil {
		h.log.Error("list failed", slog.String("session", sid), slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "Failed to load uploads.")
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Success:   true,
		Images:    images,
		Remaining: uploads.MaxImages - len(images),
	})
}

// CsrfToken issues the anti-forgery token for the current session.
func (h *Handler) CsrfToken(w http.ResponseWriter, r *http.Request) {
	sid, ok := session.IDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required.")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Success: true, Token: h.guard.Token(sid)})
}

// rejectionMessage translates pipeline errors into the user-facing messages
// shown next to the upload widget. Unknown errors get a generic message; the
// details go to the log only.
func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, uploads.ErrQuotaExceeded):
		return "The limit of 5 images has been reached."
	case errors.Is(err, imagestore.ErrFileTooLarge):
		return "The file exceeds the 5 MB size limit."
	case errors.Is(err, imagestore.ErrEmptyFile):
		return "The file is damaged or empty."
	case errors.Is(err, imagestore.ErrShortUpload):
		return "The file was only partially uploaded."
	case errors.Is(err, sniff.ErrUnsupportedFormat), errors.Is(err, sniff.ErrEmptyContent):
		return "Only JPG or PNG images are supported."
	case errors.Is(err, thumbnail.ErrDecode):
		return "The image could not be read. It may be corrupt."
	case errors.Is(err, thumbnail.ErrResample),
		errors.Is(err, thumbnail.ErrCrop),
		errors.Is(err, thumbnail.ErrEncode):
		return "Failed to process the image."
	default:
		return "Failed to save the file."
	}
}
