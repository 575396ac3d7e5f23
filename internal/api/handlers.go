package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"maale/internal/models"
	"maale/internal/notify"
	"maale/internal/service"
)

func parseDateParam(r *http.Request, name string) (time.Time, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, false, nil
	}
	date, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return date, true, nil
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, actor, err := s.auth.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":    token,
		"username": actor.Username,
		"role":     actor.Role,
	})
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := s.auth.Logout(r.Context(), r.Header.Get(s.cfg.SessionHeader)); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleSlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date, ok, err := parseDateParam(r, "date")
	if err != nil || !ok {
		writeError(w, http.StatusBadRequest, "date is required in YYYY-MM-DD form")
		return
	}

	free, err := s.bookings.FreeSlots(r.Context(), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":       date.Format(models.DateLayout),
		"free_slots": free,
	})
}

func (s *HTTPServer) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date, ok, err := parseDateParam(r, "date")
	if err != nil || !ok {
		writeError(w, http.StatusBadRequest, "date is required in YYYY-MM-DD form")
		return
	}

	bookings, err := s.bookings.Schedule(r.Context(), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createBooking(w, r)
	case http.MethodDelete:
		s.deleteBookings(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CourseID  string `json:"course_id"`
		Commander string `json:"commander_name"`
		Phone     string `json:"phone"`
		Date      string `json:"date"`
		StartSlot string `json:"start_slot"`
		EndSlot   string `json:"end_slot"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	date, err := time.Parse(models.DateLayout, body.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	booking, err := s.bookings.Create(r.Context(), s.actor(r), service.CreateRequest{
		CourseID:  body.CourseID,
		Commander: body.Commander,
		Phone:     body.Phone,
		Date:      date,
		StartSlot: body.StartSlot,
		EndSlot:   body.EndSlot,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// The booking is persisted at this point even when the notification
	// link cannot be built; the client shows the phone error inline.
	resp := map[string]any{"booking": booking}
	link, err := notify.WhatsAppLink(booking)
	if errors.Is(err, notify.ErrPhoneFormat) {
		resp["phone_error"] = err.Error()
	} else if err == nil {
		resp["whatsapp_url"] = link
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (s *HTTPServer) deleteBookings(w http.ResponseWriter, r *http.Request) {
	actor := s.actor(r)

	date, ok, err := parseDateParam(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	var removed int64
	if ok {
		removed, err = s.bookings.DeleteForDate(r.Context(), actor, date)
	} else {
		removed, err = s.bookings.DeleteAll(r.Context(), actor)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	const prefix = "/api/v1/bookings/"
	idStr := strings.TrimPrefix(r.URL.Path, prefix)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	if err := s.bookings.Delete(r.Context(), s.actor(r), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *HTTPServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var datePtr *time.Time
	date, ok, err := parseDateParam(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}
	if ok {
		datePtr = &date
	}

	results, err := s.bookings.Search(r.Context(), s.actor(r),
		strings.TrimSpace(r.URL.Query().Get("course")),
		strings.TrimSpace(r.URL.Query().Get("commander")),
		datePtr,
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"bookings": results})
}

func (s *HTTPServer) handleActiveAnnouncement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	active, err := s.announcements.Active(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"announcement": active})
}

func (s *HTTPServer) handleAnnouncements(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.announcementHistory(w, r)
	case http.MethodPost:
		s.publishAnnouncement(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) announcementHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.announcements.History(r.Context(), s.actor(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"announcements": history})
}

func (s *HTTPServer) publishAnnouncement(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	a, err := s.announcements.Publish(r.Context(), s.actor(r), body.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"announcement": a})
}

func (s *HTTPServer) handleDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	deleted, err := s.announcements.DeleteLast(r.Context(), s.actor(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

func (s *HTTPServer) handleAdminLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entries, err := s.adminLog.Entries(r.Context(), s.actor(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	actor := s.actor(r)

	from, okFrom, errFrom := parseDateParam(r, "from")
	to, okTo, errTo := parseDateParam(r, "to")
	if errFrom != nil || errTo != nil || !okFrom || !okTo || to.Before(from) {
		writeError(w, http.StatusBadRequest, "from and to are required in YYYY-MM-DD form")
		return
	}

	bookings, err := s.bookings.Export(r.Context(), actor, from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	path, err := s.exporter.ScheduleXLSX(bookings, from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"file": path})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
