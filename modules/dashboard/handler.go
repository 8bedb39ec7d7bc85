package dashboard

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"adgenius-server/modules/adgen"
	"adgenius-server/modules/common/model"
)

const recentCreatives = 4

// Card - one creative with the brand kit it is rendered with
type Card struct {
	Creative model.AdCreative
	BrandKit model.BrandKit
}

// Handler serves the server-rendered workspace pages.
type Handler struct {
	renderer   *Renderer
	service    *adgen.Service
	workspaces adgen.WorkspaceResolver
}

func NewHandler(renderer *Renderer, service *adgen.Service, workspaces adgen.WorkspaceResolver) *Handler {
	return &Handler{renderer: renderer, service: service, workspaces: workspaces}
}

// RegisterRoutes mounts the page routes.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.HandleDashboard).Methods("GET")
	r.HandleFunc("/generate", h.HandleGenerateForm).Methods("GET")
	r.HandleFunc("/generate", h.HandleGenerate).Methods("POST")
	r.HandleFunc("/projects", h.HandleProjects).Methods("GET")
	r.HandleFunc("/brandkit", h.HandleBrandKit).Methods("GET")
	r.HandleFunc("/brandkit", h.HandleSaveBrandKit).Methods("POST")
	r.HandleFunc("/billing", h.HandleBilling).Methods("GET")
}

// HandleDashboard - GET /
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	_, store := h.workspaces.Resolve(w, r)
	snap := store.SwitchTab(adgen.TabDashboard)

	recent := snap.Creatives
	if len(recent) > recentCreatives {
		recent = recent[:recentCreatives]
	}

	h.renderer.Page(w, http.StatusOK, "dashboard", &PageData{
		Title: "Dashboard",
		State: snap,
		Cost:  h.service.Cost(),
		Data: map[string]any{
			"CampaignsLeft": snap.Credits / h.service.Cost(),
			"AvgScore":      averageScore(snap.Creatives),
			"Cards":         cards(recent, snap.BrandKit),
		},
	})
}

// HandleGenerateForm - GET /generate
func (h *Handler) HandleGenerateForm(w http.ResponseWriter, r *http.Request) {
	_, store := h.workspaces.Resolve(w, r)
	h.renderGenerate(w, http.StatusOK, store.SwitchTab(adgen.TabGenerate), nil)
}

// HandleGenerate - POST /generate applies the submitted form and runs one
// generation. Success redirects to the gallery; failures re-render the form.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	sessionID, store := h.workspaces.Resolve(w, r)

	if err := r.ParseForm(); err != nil {
		h.renderGenerate(w, http.StatusBadRequest, store.Snapshot(), &Flash{Type: "error", Message: "Invalid form submission"})
		return
	}

	if _, err := store.UpdateForm(formUpdate(r)); err != nil {
		h.renderGenerate(w, adgen.StatusFor(err), store.Snapshot(), &Flash{Type: "error", Message: err.Error()})
		return
	}

	if _, err := h.service.Generate(r.Context(), sessionID, store); err != nil {
		h.renderGenerate(w, adgen.StatusFor(err), store.SwitchTab(adgen.TabGenerate), &Flash{Type: "error", Message: adgen.UserMessage(err)})
		return
	}

	http.Redirect(w, r, "/projects", http.StatusSeeOther)
}

func (h *Handler) renderGenerate(w http.ResponseWriter, status int, snap adgen.Snapshot, flash *Flash) {
	data := &PageData{Title: "Generate", State: snap, Cost: h.service.Cost()}
	if flash != nil {
		data.Flashes = append(data.Flashes, *flash)
	}
	h.renderer.Page(w, status, "generate", data)
}

// HandleProjects - GET /projects
func (h *Handler) HandleProjects(w http.ResponseWriter, r *http.Request) {
	_, store := h.workspaces.Resolve(w, r)
	snap := store.SwitchTab(adgen.TabProjects)

	h.renderer.Page(w, http.StatusOK, "projects", &PageData{
		Title: "Projects",
		State: snap,
		Cost:  h.service.Cost(),
		Data:  map[string]any{"Cards": cards(snap.Creatives, snap.BrandKit)},
	})
}

// HandleBrandKit - GET /brandkit
func (h *Handler) HandleBrandKit(w http.ResponseWriter, r *http.Request) {
	_, store := h.workspaces.Resolve(w, r)
	h.renderBrandKit(w, http.StatusOK, store.SwitchTab(adgen.TabBrandKit), nil)
}

// HandleSaveBrandKit - POST /brandkit
func (h *Handler) HandleSaveBrandKit(w http.ResponseWriter, r *http.Request) {
	_, store := h.workspaces.Resolve(w, r)

	if err := r.ParseForm(); err != nil {
		h.renderBrandKit(w, http.StatusBadRequest, store.Snapshot(), &Flash{Type: "error", Message: "Invalid form submission"})
		return
	}

	snap, err := store.UpdateBrandKit(adgen.BrandKitUpdate{
		Name:           formValue(r, "name"),
		Logo:           formValue(r, "logo"),
		PrimaryColor:   formValue(r, "primaryColor"),
		SecondaryColor: formValue(r, "secondaryColor"),
		FontFamily:     formValue(r, "fontFamily"),
	})
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, adgen.ErrInvalidInput) {
			status = http.StatusInternalServerError
		}
		h.renderBrandKit(w, status, store.Snapshot(), &Flash{Type: "error", Message: err.Error()})
		return
	}

	log.Printf("🎨 [Dashboard] Brand kit saved: %s", snap.BrandKit.Name)
	h.renderBrandKit(w, http.StatusOK, snap, &Flash{Type: "success", Message: fmt.Sprintf("Brand kit %q saved.", snap.BrandKit.Name)})
}

func (h *Handler) renderBrandKit(w http.ResponseWriter, status int, snap adgen.Snapshot, flash *Flash) {
	data := &PageData{Title: "Brand Kit", State: snap, Cost: h.service.Cost()}
	if flash != nil {
		data.Flashes = append(data.Flashes, *flash)
	}
	h.renderer.Page(w, status, "brandkit", data)
}

// HandleBilling - GET /billing
func (h *Handler) HandleBilling(w http.ResponseWriter, r *http.Request) {
	_, store := h.workspaces.Resolve(w, r)

	h.renderer.Page(w, http.StatusOK, "billing", &PageData{
		Title: "Billing",
		State: store.SwitchTab(adgen.TabBilling),
		Cost:  h.service.Cost(),
		Data:  map[string]any{"Plans": Plans},
	})
}

func formUpdate(r *http.Request) adgen.FormUpdate {
	return adgen.FormUpdate{
		ProjectName:    formValue(r, "projectName"),
		ProductDesc:    formValue(r, "productDesc"),
		TargetAudience: formValue(r, "targetAudience"),
		Platform:       formValue(r, "platform"),
		Size:           formValue(r, "size"),
	}
}

// formValue returns nil for fields absent from the submission.
func formValue(r *http.Request, key string) *string {
	if _, ok := r.PostForm[key]; !ok {
		return nil
	}
	v := r.PostForm.Get(key)
	return &v
}

func cards(creatives []model.AdCreative, kit model.BrandKit) []Card {
	out := make([]Card, 0, len(creatives))
	for _, c := range creatives {
		out = append(out, Card{Creative: c, BrandKit: kit})
	}
	return out
}

// averageScore formats the mean performance score, or "-" for an empty gallery.
func averageScore(creatives []model.AdCreative) string {
	if len(creatives) == 0 {
		return "-"
	}
	total := 0
	for _, c := range creatives {
		total += c.PerformanceScore
	}
	return fmt.Sprintf("%d%%", (total+len(creatives)/2)/len(creatives))
}
