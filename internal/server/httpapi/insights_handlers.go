package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/marketpulse/internal/common"
)

type growthMetricResponse struct {
	Name    string  `json:"name"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
}

type growthStrategyItemResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Progress    int64  `json:"progress"`
	Status      string `json:"status"`
}

type growthStrategyResponse struct {
	Metrics    []growthMetricResponse       `json:"metrics"`
	Strategies []growthStrategyItemResponse `json:"strategies"`
}

type marketTrendResponse struct {
	Topic     string  `json:"topic"`
	Mentions  int64   `json:"mentions"`
	Sentiment float64 `json:"sentiment"`
}

type marketSizeResponse struct {
	CurrentSize   float64 `json:"current_size"`
	PredictedSize float64 `json:"predicted_size"`
	GrowthRate    float64 `json:"growth_rate"`
}

type competitorResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (h *Handler) handleGrowthStrategy(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.analytics.GrowthMetrics(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "growth metrics lookup failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	strategies, err := h.analytics.GrowthStrategies(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "growth strategies lookup failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := growthStrategyResponse{
		Metrics:    make([]growthMetricResponse, 0, len(metrics)),
		Strategies: make([]growthStrategyItemResponse, 0, len(strategies)),
	}
	for _, m := range metrics {
		resp.Metrics = append(resp.Metrics, growthMetricResponse{
			Name: m.Name, Current: m.Current, Target: m.Target,
		})
	}
	for _, s := range strategies {
		resp.Strategies = append(resp.Strategies, growthStrategyItemResponse{
			ID: s.ID, Title: s.Title, Description: s.Description,
			Progress: s.Progress, Status: s.Status,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleMarketTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.analytics.MarketTrends(r.Context(), r.URL.Query().Get("industry"))
	if err != nil {
		h.log.Error(r.Context(), "market trends lookup failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]marketTrendResponse, 0, len(trends))
	for _, t := range trends {
		out = append(out, marketTrendResponse{
			Topic: t.Topic, Mentions: t.Mentions, Sentiment: t.Sentiment,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleMarketSize(w http.ResponseWriter, r *http.Request) {
	industry := r.URL.Query().Get("industry")
	if industry == "" {
		writeMessage(w, http.StatusBadRequest, "Industry is required")
		return
	}

	est, err := h.analytics.MarketSize(r.Context(), industry)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeMessage(w, http.StatusNotFound, "No market size data for this industry")
			return
		}
		h.log.Error(r.Context(), "market size lookup failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, marketSizeResponse{
		CurrentSize:   est.CurrentSize,
		PredictedSize: est.PredictedSize,
		GrowthRate:    est.GrowthRate,
	})
}

func (h *Handler) handleCompetitors(w http.ResponseWriter, r *http.Request) {
	competitors, err := h.analytics.Competitors(r.Context(), r.URL.Query().Get("industry"))
	if err != nil {
		h.log.Error(r.Context(), "competitors lookup failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	out := make([]competitorResponse, 0, len(competitors))
	for _, c := range competitors {
		out = append(out, competitorResponse{Name: c.Name, URL: c.URL})
	}
	writeJSON(w, http.StatusOK, out)
}
