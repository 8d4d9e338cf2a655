package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cartbook/internal/booking"
	"cartbook/internal/export"
	"cartbook/internal/metrics"
	"cartbook/internal/models"
	"cartbook/internal/projection"
	"cartbook/internal/timeslot"
)

// CreateBookingRequest is the body for POST /api/bookings. Either Slot
// (an opening label like "06:00 - 08:00") or InitialTime/EndTime must be
// set.
type CreateBookingRequest struct {
	Device      string `json:"device"`
	Name        string `json:"name"`
	Partner     string `json:"partner"`
	Place       string `json:"place"`
	Date        string `json:"date"`                   // YYYY-MM-DD
	Slot        string `json:"slot,omitempty"`         // fixed opening label
	InitialTime string `json:"initial_time,omitempty"` // HH:MM
	EndTime     string `json:"end_time,omitempty"`     // HH:MM
}

// DeleteBookingRequest carries the confirmation text.
type DeleteBookingRequest struct {
	Confirmation string `json:"confirmation"`
}

// BookingView decorates a booking with its UI affordances.
type BookingView struct {
	models.Booking
	Window       string `json:"window"` // "HH:mm - HH:mm"
	Past         bool   `json:"past"`
	Current      bool   `json:"current"`
	UpcomingSoon bool   `json:"upcoming_soon"`
	StartsIn     string `json:"starts_in,omitempty"`
}

// DayGroupView is one day bucket of the grouped listing.
type DayGroupView struct {
	Day      string        `json:"day"` // YYYY-MM-DD
	Bookings []BookingView `json:"bookings"`
}

// handleBookings lists or creates reservations.
// GET  /api/bookings?history=true
// POST /api/bookings
func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listBookings(w, r)
	case http.MethodPost:
		s.createBooking(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_list")

	lookback := s.cfg.Booking.LookbackDays
	if r.URL.Query().Get("history") == "true" {
		lookback = s.cfg.Booking.HistoryLookbackDays
	}

	groups, err := s.svc.Grouped(r.Context(), lookback)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"days": s.toDayViews(groups)})
}

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_create")

	var req CreateBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	in, err := s.toCreateInput(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.svc.Create(r.Context(), in, actor(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// handleBookingByID routes DELETE /api/bookings/{id} and
// POST /api/bookings/{id}/return.
func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/bookings/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)

	if id, ok := strings.CutSuffix(rest, "/return"); ok {
		s.toggleReturned(w, r, id)
		return
	}
	s.deleteBooking(w, r, rest)
}

func (s *HTTPServer) deleteBooking(w http.ResponseWriter, r *http.Request, id string) {
	metrics.IncHTTP("bookings_delete")
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use DELETE")
		return
	}
	if id == "" {
		writeError(w, http.StatusBadRequest, "booking id is required")
		return
	}

	var req DeleteBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.svc.Delete(r.Context(), id, req.Confirmation, actor(r)); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *HTTPServer) toggleReturned(w http.ResponseWriter, r *http.Request, id string) {
	metrics.IncHTTP("bookings_return")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}
	if id == "" {
		writeError(w, http.StatusBadRequest, "booking id is required")
		return
	}

	returned, err := s.svc.ToggleReturned(r.Context(), id, actor(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"returned": returned})
}

// handleLastUsed returns the per-device last-used projection.
// GET /api/last-used
func (s *HTTPServer) handleLastUsed(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("last_used")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	last, err := s.svc.LastUsed(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": last})
}

// handleExport streams the booking history workbook.
// GET /api/export
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	history, err := s.svc.History(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	if err := export.Report(history, w); err != nil {
		s.log.Error().Err(err).Msg("export failed")
	}
}

func (s *HTTPServer) toCreateInput(req CreateBookingRequest) (booking.CreateInput, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	if err != nil {
		return booking.CreateInput{}, fmt.Errorf("invalid date format; expected YYYY-MM-DD")
	}

	in := booking.CreateInput{
		Device:  req.Device,
		Name:    req.Name,
		Partner: req.Partner,
		Place:   req.Place,
	}

	switch {
	case req.Slot != "":
		start, end, err := s.parseSlotLabel(date, req.Slot)
		if err != nil {
			return booking.CreateInput{}, err
		}
		// A slot matching the fixed duration persists as a plain start;
		// anything else keeps its explicit end.
		in.Start = start
		if end.Sub(start) != timeslot.SlotDuration {
			in.End = &end
		}
	case req.InitialTime != "" && req.EndTime != "":
		start, err := parseTimeOnDate(date, req.InitialTime)
		if err != nil {
			return booking.CreateInput{}, err
		}
		end, err := parseTimeOnDate(date, req.EndTime)
		if err != nil {
			return booking.CreateInput{}, err
		}
		in.Start = start
		in.End = &end
	default:
		return booking.CreateInput{}, fmt.Errorf("either slot or initial_time and end_time are required")
	}

	return in, nil
}

func (s *HTTPServer) parseSlotLabel(date time.Time, label string) (start, end time.Time, err error) {
	parts := strings.Split(label, " - ")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid slot format; expected \"HH:MM - HH:MM\"")
	}
	start, err = parseTimeOnDate(date, parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = parseTimeOnDate(date, parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseTimeOnDate(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q; expected HH:MM", clock)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

func (s *HTTPServer) toDayViews(groups []projection.DayGroup) []DayGroupView {
	now := time.Now().In(s.loc)
	out := make([]DayGroupView, len(groups))
	for i, g := range groups {
		view := DayGroupView{Day: g.Day.Format("2006-01-02")}
		for _, b := range g.Bookings {
			win := b.Window()
			bv := BookingView{
				Booking:      b,
				Window:       win.Label(),
				Past:         timeslot.IsPast(win, now),
				Current:      timeslot.IsCurrent(win, now),
				UpcomingSoon: timeslot.IsUpcomingSoon(win, now),
			}
			if bv.UpcomingSoon {
				bv.StartsIn = timeslot.Until(win.Start, now)
			}
			view.Bookings = append(view.Bookings, bv)
		}
		out[i] = view
	}
	return out
}
