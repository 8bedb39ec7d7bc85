package adgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"adgenius-server/modules/common/gemini"
	"adgenius-server/modules/common/model"
	"adgenius-server/modules/common/utils"
)

// WorkspaceResolver finds (or creates) the workspace of a request.
type WorkspaceResolver interface {
	Resolve(w http.ResponseWriter, r *http.Request) (string, *Store)
}

// Handler serves the JSON API of a workspace.
type Handler struct {
	service     *Service
	workspaces  WorkspaceResolver
	webpQuality float32
}

func NewHandler(service *Service, workspaces WorkspaceResolver, webpQuality float32) *Handler {
	return &Handler{service: service, workspaces: workspaces, webpQuality: webpQuality}
}

// RegisterRoutes mounts the API under /api.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", h.HandleState).Methods("GET")
	api.HandleFunc("/form", h.HandleUpdateForm).Methods("PUT")
	api.HandleFunc("/brandkit", h.HandleUpdateBrandKit).Methods("PUT")
	api.HandleFunc("/tab", h.HandleSwitchTab).Methods("POST")
	api.HandleFunc("/generate", h.HandleGenerate).Methods("POST")
	api.HandleFunc("/creatives/{id}/download", h.HandleDownload).Methods("GET")
}

type errorResponse struct {
	Error string           `json:"error"`
	Kind  gemini.ErrorKind `json:"kind,omitempty"`
}

// HandleState - GET /api/state
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	_, store := h.workspaces.Resolve(w, r)
	writeJSON(w, http.StatusOK, store.Snapshot())
}

// HandleUpdateForm - PUT /api/form
func (h *Handler) HandleUpdateForm(w http.ResponseWriter, r *http.Request) {
	_, store := h.workspaces.Resolve(w, r)

	var update FormUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request format"})
		return
	}

	snap, err := store.UpdateForm(update)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleUpdateBrandKit - PUT /api/brandkit
func (h *Handler) HandleUpdateBrandKit(w http.ResponseWriter, r *http.Request) {
	_, store := h.workspaces.Resolve(w, r)

	var update BrandKitUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request format"})
		return
	}

	snap, err := store.UpdateBrandKit(update)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleSwitchTab - POST /api/tab
func (h *Handler) HandleSwitchTab(w http.ResponseWriter, r *http.Request) {
	_, store := h.workspaces.Resolve(w, r)

	var req struct {
		Tab string `json:"tab"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request format"})
		return
	}

	tab, err := ParseTab(req.Tab)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, store.SwitchTab(tab))
}

// HandleGenerate - POST /api/generate. An optional body edits the form first.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	sessionID, store := h.workspaces.Resolve(w, r)

	var update FormUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request format"})
		return
	}
	if !update.IsEmpty() {
		if _, err := store.UpdateForm(update); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}

	result, err := h.service.Generate(r.Context(), sessionID, store)
	if err != nil {
		writeJSON(w, StatusFor(err), errorResponse{Error: UserMessage(err), Kind: gemini.KindOf(err)})
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// HandleDownload - GET /api/creatives/{id}/download?format=png|webp
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	_, store := h.workspaces.Resolve(w, r)
	id := mux.Vars(r)["id"]

	creative, ok := findCreative(store.Snapshot().Creatives, id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Creative not found"})
		return
	}

	mimeType, data, err := utils.ParseDataURI(creative.ImageURL)
	if errors.Is(err, utils.ErrNotDataURI) {
		http.Redirect(w, r, creative.ImageURL, http.StatusFound)
		return
	}
	if err != nil {
		log.Printf("❌ [AdGen] Creative %s has an unreadable image: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Image could not be decoded"})
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "original", "png":
	case "webp":
		data, err = utils.ConvertImageToWebP(data, h.webpQuality)
		if err != nil {
			log.Printf("❌ [AdGen] WebP conversion failed for %s: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "WebP conversion failed"})
			return
		}
		mimeType = "image/webp"
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unsupported format %q", format)})
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="creative-%s.%s"`, id, utils.ExtensionFor(mimeType)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// StatusFor maps a generation or transition error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientCredits):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrGenerationInProgress):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func findCreative(creatives []model.AdCreative, id string) (model.AdCreative, bool) {
	for _, c := range creatives {
		if c.ID == id {
			return c, true
		}
	}
	return model.AdCreative{}, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ [AdGen] Failed to encode response: %v", err)
	}
}
