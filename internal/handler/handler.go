// Package handler exposes the diagnostic session API consumed by the
// browser front end.
package handler

import (
	"net/http"

	"github.com/verdant-health/clinsight/internal/config"
	"github.com/verdant-health/clinsight/internal/domain"
	"github.com/verdant-health/clinsight/internal/interpret"
	"github.com/verdant-health/clinsight/internal/middleware"
	"github.com/verdant-health/clinsight/internal/repository"
	"github.com/verdant-health/clinsight/internal/service"
)

// Handler holds all dependencies needed by the API handlers.
type Handler struct {
	cfg       *config.Config
	registry  *service.Registry
	interpret *interpret.Service
	intakes   *repository.IntakeRepository
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Cfg       *config.Config
	Registry  *service.Registry
	Interpret *interpret.Service
	Intakes   *repository.IntakeRepository
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		cfg:       deps.Cfg,
		registry:  deps.Registry,
		interpret: deps.Interpret,
		intakes:   deps.Intakes,
	}
}

// Register wires all routes onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	// Model garden
	mux.HandleFunc("GET /api/models", h.handleListModels)
	mux.HandleFunc("POST /api/models/select", h.handleSelectModel)

	// Input capture
	mux.HandleFunc("POST /api/capture/mode", h.handleSetMode)
	mux.HandleFunc("POST /api/capture/upload", h.handleUpload)
	mux.HandleFunc("POST /api/capture/frame", h.handleCaptureFrame)
	mux.HandleFunc("POST /api/capture/clear", h.handleClearInput)

	// Browser camera bridge
	mux.HandleFunc("GET /api/camera/devices", h.handleListDevices)
	mux.HandleFunc("POST /api/camera/devices", h.handleReportDevices)
	mux.HandleFunc("POST /api/camera/select", h.handleSelectDevice)
	mux.HandleFunc("POST /api/camera/frame", h.handlePushFrame)

	// Diagnosis flow
	mux.HandleFunc("POST /api/diagnose", h.handleDiagnose)
	mux.HandleFunc("POST /api/interpret", h.handleInterpret)
	mux.HandleFunc("POST /api/reset", h.handleReset)
	mux.HandleFunc("GET /api/state", h.handleState)

	// Symptom prediction
	mux.HandleFunc("POST /api/predict", h.handlePredict)

	// Chat
	mux.HandleFunc("POST /api/chat", h.handleChat)
	mux.HandleFunc("GET /api/chat/samples", h.handleChatSamples)

	// Questionnaire
	mux.HandleFunc("GET /api/questionnaire", h.handleQuestionnaireState)
	mux.HandleFunc("POST /api/questionnaire/select", h.handleQuestionnaireSelect)
	mux.HandleFunc("POST /api/questionnaire/details", h.handleQuestionnaireDetails)
	mux.HandleFunc("POST /api/questionnaire/next", h.handleQuestionnaireNext)
	mux.HandleFunc("POST /api/questionnaire/previous", h.handleQuestionnairePrevious)
	mux.HandleFunc("POST /api/questionnaire/submit", h.handleQuestionnaireSubmit)

	// Session history
	mux.HandleFunc("GET /api/history", h.handleHistory)

	// Admin
	admin := middleware.RequireRole(domain.RoleAdmin)
	mux.Handle("GET /api/admin/intakes", admin(http.HandlerFunc(h.handleAdminIntakes)))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
