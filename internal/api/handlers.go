package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"courtpulse/internal/analytics"
	"courtpulse/internal/database"
	"courtpulse/internal/models"

	"github.com/google/uuid"
)

// analyticsQuery decodes the shared query parameters of the dashboard
// endpoints. Months arrive 1-based on the wire and are stored 0-based.
func analyticsQuery(r *http.Request) (int64, analytics.Options, error) {
	q := r.URL.Query()

	ownerID, err := strconv.ParseInt(strings.TrimSpace(q.Get("owner_id")), 10, 64)
	if err != nil || ownerID <= 0 {
		return 0, analytics.Options{}, fmt.Errorf("owner_id is required")
	}

	opts := analytics.Options{
		PeriodMode:      analytics.PeriodMode(q.Get("period")),
		BucketMode:      analytics.BucketMode(q.Get("mode")),
		GroupBy:         analytics.GroupDim(q.Get("group_by")),
		FieldFilter:     splitCSV(q.Get("fields")),
		CourtTypeFilter: splitCSV(q.Get("court_types")),
	}

	now := time.Now()
	opts.SelectedYear = now.Year()
	opts.SelectedMonth = int(now.Month()) - 1

	if raw := strings.TrimSpace(q.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return 0, analytics.Options{}, fmt.Errorf("invalid year: %s", raw)
		}
		opts.SelectedYear = year
	}
	if raw := strings.TrimSpace(q.Get("month")); raw != "" {
		month, err := strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			return 0, analytics.Options{}, fmt.Errorf("invalid month: %s", raw)
		}
		opts.SelectedMonth = month - 1
	}
	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, analytics.Options{}, fmt.Errorf("invalid page: %s", raw)
		}
		opts.Page = page
	}

	return ownerID, opts, nil
}

func (s *HTTPServer) handleSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ownerID, opts, err := analyticsQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	series, err := s.analytics.BucketSeries(r.Context(), ownerID, opts)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	var total int64
	for _, b := range series {
		total += b.Count
	}
	writeJSON(w, http.StatusOK, map[string]any{"series": series, "no_data": total == 0})
}

func (s *HTTPServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ownerID, opts, err := analyticsQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cards, err := s.analytics.PeriodMetrics(r.Context(), ownerID, opts)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	noData := true
	for _, c := range cards {
		if c.Value != 0 {
			noData = false
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": cards, "no_data": noData})
}

func (s *HTTPServer) handleProportions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ownerID, opts, err := analyticsQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	slices, err := s.analytics.ProportionSeries(r.Context(), ownerID, opts)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"slices": slices, "no_data": len(slices) == 0})
}

func (s *HTTPServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ownerID, opts, err := analyticsQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := s.analytics.HistoryPage(r.Context(), ownerID, opts)
	if err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		models.HistoryPage
		NoData bool `json:"no_data"`
	}{page, page.TotalCount == 0})
}

func (s *HTTPServer) handleCourts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	courts, err := s.courts.GetActiveCourts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load courts")
		return
	}

	sorted := append([]models.Court(nil), courts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].SortOrder == sorted[j].SortOrder {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	writeJSON(w, http.StatusOK, map[string]any{"courts": sorted})
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	type request struct {
		CourtID   int64     `json:"court_id"`
		UserID    int64     `json:"user_id"`
		UserName  string    `json:"user_name"`
		StartTime time.Time `json:"start_time"`
		EndTime   time.Time `json:"end_time"`
		Status    string    `json:"status"`
		Comment   string    `json:"comment"`
	}

	var body request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.CourtID <= 0 || body.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "court_id and user_id are required")
		return
	}

	booking := &models.Booking{
		CourtID:   body.CourtID,
		UserID:    body.UserID,
		UserName:  body.UserName,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		Status:    body.Status,
		Comment:   body.Comment,
	}

	if err := s.bookings.CreateBooking(r.Context(), booking); err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleBookingStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	type request struct {
		BookingID int64  `json:"booking_id"`
		Status    string `json:"status"`
	}

	var body request
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.BookingID <= 0 || body.Status == "" {
		writeError(w, http.StatusBadRequest, "booking_id and status are required")
		return
	}

	if err := s.bookings.UpdateBookingStatus(r.Context(), body.BookingID, body.Status); err != nil {
		s.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": body.Status})
}

func (s *HTTPServer) handleEnqueueReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.reports == nil {
		writeError(w, http.StatusServiceUnavailable, "report worker is disabled")
		return
	}

	type request struct {
		OwnerID int64  `json:"owner_id"`
		Period  string `json:"period"`
		Month   int    `json:"month"`
		Year    int    `json:"year"`
	}

	var body request
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.OwnerID <= 0 {
		writeError(w, http.StatusBadRequest, "owner_id is required")
		return
	}

	now := time.Now()
	task := models.ReportTask{
		ID:          uuid.NewString(),
		OwnerID:     body.OwnerID,
		PeriodMode:  body.Period,
		MonthIndex:  int(now.Month()) - 1,
		Year:        now.Year(),
		RequestedAt: now,
	}
	if task.PeriodMode == "" {
		task.PeriodMode = string(analytics.PeriodMonthly)
	}
	if body.Year > 0 {
		task.Year = body.Year
	}
	if body.Month >= 1 && body.Month <= 12 {
		task.MonthIndex = body.Month - 1
	}

	if err := s.reports.Enqueue(r.Context(), task); err != nil {
		writeError(w, http.StatusServiceUnavailable, "report queue is full")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"task_id": task.ID})
}

func (s *HTTPServer) writeQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analytics.ErrBadOptions):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrCourtNotFound),
		errors.Is(err, database.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
