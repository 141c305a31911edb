package handler

import (
	"io"
	"net/http"

	"github.com/verdant-health/clinsight/internal/capture"
	"github.com/verdant-health/clinsight/internal/config"
)

func (h *Handler) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s := h.session(w, r)
	if err := s.Orchestrator.SetMode(r.Context(), capture.Mode(req.Mode)); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"mode": req.Mode})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		httpError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, config.MaxUploadBytes))
	if err != nil {
		httpError(w, http.StatusBadRequest, "read upload")
		return
	}

	s := h.session(w, r)
	mimeType := header.Header.Get("Content-Type")
	if err := s.Orchestrator.AttachUpload(header.Filename, mimeType, data); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"file":  header.Filename,
		"state": string(s.Orchestrator.State()),
	})
}

func (h *Handler) handleCaptureFrame(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if err := s.Orchestrator.CaptureFrame(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"state": string(s.Orchestrator.State())})
}

func (h *Handler) handleClearInput(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	s.Orchestrator.ClearInput()
	respondJSON(w, http.StatusOK, map[string]string{"state": string(s.Orchestrator.State())})
}

func (h *Handler) handleListDevices(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	devices, err := s.Orchestrator.Devices(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"devices": devices})
}

// handleReportDevices receives the media device list the browser enumerated.
func (h *Handler) handleReportDevices(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Devices []capture.Device `json:"devices"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s := h.session(w, r)
	s.Bridge.SetDevices(req.Devices)
	respondJSON(w, http.StatusOK, map[string]int{"devices": len(req.Devices)})
}

func (h *Handler) handleSelectDevice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeviceID string `json:"deviceId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s := h.session(w, r)
	if err := s.Orchestrator.SelectDevice(r.Context(), req.DeviceID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deviceId": req.DeviceID})
}

// handlePushFrame receives one preview frame from the browser camera.
func (h *Handler) handlePushFrame(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("deviceId")
	if deviceID == "" {
		httpError(w, http.StatusBadRequest, "missing deviceId")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, config.MaxUploadBytes))
	r.Body.Close()
	if err != nil || len(data) == 0 {
		httpError(w, http.StatusBadRequest, "missing frame body")
		return
	}

	mimeType := r.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	s := h.session(w, r)
	if err := s.Bridge.PushFrame(deviceID, data, mimeType); err != nil {
		httpError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"bytes": len(data)})
}
