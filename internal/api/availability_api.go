package api

import (
	"net/http"
	"time"

	"cartbook/internal/metrics"
)

// AvailabilityResponse lists the fixed openings with availability plus
// the annotated display labels ("06:00 - 08:00 (Reservado)").
type AvailabilityResponse struct {
	Device   string        `json:"device"`
	Date     string        `json:"date"`
	Openings []OpeningView `json:"openings"`
	Display  []string      `json:"display"`
}

// OpeningView mirrors availability.Opening for the wire.
type OpeningView struct {
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

// handleAvailability returns slot availability for a device and date.
// Missing parameters are not an error: nothing can be determined yet, so
// every opening comes back available.
// GET /api/availability?device=Carrinho+1&date=2024-05-01
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	device := r.URL.Query().Get("device")
	dateStr := r.URL.Query().Get("date")

	var date time.Time
	if dateStr != "" {
		var err error
		date, err = time.ParseInLocation("2006-01-02", dateStr, s.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
			return
		}
	}

	openings, err := s.svc.Availability(r.Context(), device, date)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	resp := AvailabilityResponse{
		Device:  device,
		Date:    dateStr,
		Display: s.engine.Annotate(openings),
	}
	for _, o := range openings {
		resp.Openings = append(resp.Openings, OpeningView{Label: o.Label, Available: o.Available})
	}

	writeJSON(w, http.StatusOK, resp)
}
