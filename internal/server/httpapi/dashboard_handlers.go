package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/marketpulse/internal/common"
	"github.com/dmitrijs2005/marketpulse/internal/server/models"
)

type segmentResponse struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Size            int64    `json:"size"`
	Growth          float64  `json:"growth"`
	Characteristics []string `json:"characteristics"`
}

type behaviorResponse struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type metricsResponse struct {
	Summary struct {
		TotalCustomers       int64   `json:"total_customers"`
		ActiveCustomers      int64   `json:"active_customers"`
		ChurnRate            float64 `json:"churn_rate"`
		AverageLifetimeValue float64 `json:"average_lifetime_value"`
	} `json:"summary"`
	Trends struct {
		GrowthRate       float64 `json:"growth_rate"`
		RetentionRate    float64 `json:"retention_rate"`
		SatisfactionRate float64 `json:"satisfaction_rate"`
	} `json:"trends"`
}

type engagementResponse struct {
	Date         string  `json:"date"`
	Engagement   float64 `json:"engagement"`
	Satisfaction float64 `json:"satisfaction"`
	Retention    float64 `json:"retention"`
}

func toSegment(s models.Segment) segmentResponse {
	return segmentResponse{
		ID: s.ID, Name: s.Name, Size: s.Size, Growth: s.Growth,
		Characteristics: s.Characteristics,
	}
}

func (h *Handler) handleSegments(w http.ResponseWriter, r *http.Request) {
	segments, err := h.analytics.Segments(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "listing segments failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]segmentResponse, 0, len(segments))
	for _, s := range segments {
		out = append(out, toSegment(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleSegmentDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid segment id")
		return
	}

	segment, err := h.analytics.Segment(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeMessage(w, http.StatusNotFound, "Segment not found")
			return
		}
		h.log.Error(r.Context(), "segment lookup failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toSegment(*segment))
}

func (h *Handler) handleBehaviors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	behaviors, err := h.analytics.Behaviors(r.Context(),
		q.Get("startDate"), q.Get("endDate"), q.Get("segmentId"))
	if err != nil {
		h.log.Error(r.Context(), "listing behaviors failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]behaviorResponse, 0, len(behaviors))
	for _, b := range behaviors {
		out = append(out, behaviorResponse{Type: b.Type, Count: b.Count})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.analytics.Metrics(r.Context())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeMessage(w, http.StatusNotFound, "No metrics recorded")
			return
		}
		h.log.Error(r.Context(), "metrics lookup failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var resp metricsResponse
	resp.Summary.TotalCustomers = m.TotalCustomers
	resp.Summary.ActiveCustomers = m.ActiveCustomers
	resp.Summary.ChurnRate = m.ChurnRate
	resp.Summary.AverageLifetimeValue = m.AverageLifetimeValue
	resp.Trends.GrowthRate = m.GrowthRate
	resp.Trends.RetentionRate = m.RetentionRate
	resp.Trends.SatisfactionRate = m.SatisfactionRate
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleEngagement(w http.ResponseWriter, r *http.Request) {
	points, err := h.analytics.Engagement(r.Context(), r.URL.Query().Get("segmentId"))
	if err != nil {
		h.log.Error(r.Context(), "engagement lookup failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]engagementResponse, 0, len(points))
	for _, p := range points {
		out = append(out, engagementResponse{
			Date: p.Date, Engagement: p.Engagement,
			Satisfaction: p.Satisfaction, Retention: p.Retention,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Get(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeMessage(w, http.StatusNotFound, "Business profile not found")
			return
		}
		h.log.Error(r.Context(), "profile lookup failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// The payload is the profile document as last submitted.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(profile.Payload)
}

func (h *Handler) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var doc struct {
		CompanyName string `json:"companyName"`
		Industry    string `json:"industry"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if doc.CompanyName == "" || doc.Industry == "" {
		writeMessage(w, http.StatusBadRequest, "Company name and industry are required")
		return
	}

	profile := &models.BusinessProfile{
		UserID:      userIDFromContext(r.Context()),
		CompanyName: doc.CompanyName,
		Industry:    doc.Industry,
		Payload:     body,
	}
	if err := h.profiles.Save(r.Context(), profile); err != nil {
		h.log.Error(r.Context(), "profile save failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeMessage(w, http.StatusOK, "Business profile saved")
}
