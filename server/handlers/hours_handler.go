package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"anchor-status/models/hours"
	services "anchor-status/service"
	"anchor-status/util"

	"github.com/rs/zerolog/log"
)

const DATE_QUERY_ARG = "date"

// HoursResponse is the cached schedule as published upstream.
type HoursResponse struct {
	RegularHours map[string]hours.DaySchedule `json:"regular_hours"`
	SpecialHours []hours.SpecialDayOverride   `json:"special_hours"`
	Timezone     string                       `json:"timezone,omitempty"`
	LastUpdated  string                       `json:"last_updated,omitempty"`
}

// EffectiveHoursResponse is one resolved day plus its display form.
type EffectiveHoursResponse struct {
	hours.EffectiveDayHours
	Display string `json:"display"`
}

type HoursHandler struct {
	statusService *services.StatusService
	loc           *time.Location
	now           func() time.Time
}

func NewHoursHandler(statusService *services.StatusService, loc *time.Location) *HoursHandler {
	return &HoursHandler{
		statusService: statusService,
		loc:           loc,
		now:           time.Now,
	}
}

// GetHours handles GET /v1/hours
func (h *HoursHandler) GetHours(w http.ResponseWriter, r *http.Request) {
	doc, err := h.statusService.Document()
	if err != nil {
		h.writeNoHours(w)
		return
	}
	writeJSON(w, http.StatusOK, HoursResponse{
		RegularHours: doc.RegularHours,
		SpecialHours: doc.SpecialHours,
		Timezone:     doc.Timezone,
		LastUpdated:  doc.UpdatedAt(),
	})
}

// GetEffectiveHours handles GET /v1/hours/effective?date=YYYY-MM-DD, defaulting to today.
func (h *HoursHandler) GetEffectiveHours(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get(DATE_QUERY_ARG)
	if date == "" {
		date = h.now().In(h.loc).Format(services.DateLayout)
	}

	eff, err := h.statusService.EffectiveHours(date)
	switch {
	case errors.Is(err, services.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date", "Invalid argument "+DATE_QUERY_ARG)
		return
	case err != nil:
		h.writeNoHours(w)
		return
	}
	writeJSON(w, http.StatusOK, EffectiveHoursResponse{
		EffectiveDayHours: eff,
		Display:           util.FormatScheduledHours(eff, true),
	})
}

// GetHoursChart handles GET /v1/hours/chart with an HTML chart of the coming week.
func (h *HoursHandler) GetHoursChart(w http.ResponseWriter, r *http.Request) {
	days, err := h.statusService.WeeklyHours(h.now())
	if err != nil {
		h.writeNoHours(w)
		return
	}

	var buf bytes.Buffer
	if err := util.PlotWeeklyHours(&buf, days); err != nil {
		log.Error().Err(err).Msg("[HoursHandler] Could not render chart")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *HoursHandler) writeNoHours(w http.ResponseWriter) {
	writeError(w, http.StatusServiceUnavailable, "no_hours", "business hours not loaded yet")
}
