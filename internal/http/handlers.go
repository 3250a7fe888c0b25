package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tourbill/internal/core"
	"tourbill/internal/export"
	"tourbill/internal/report"
	"tourbill/internal/store"
)

type legRequest struct {
	ID          string  `json:"id"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	StartTime   string  `json:"startTime"`
	ArrivedTime string  `json:"arrivedTime"`
	Amount      string  `json:"amount"`
	DistanceKM  float64 `json:"distanceKm"`
	TravelBy    string  `json:"travelBy"`
}

type itemRequest struct {
	ID      string `json:"id"`
	Halting string `json:"halting"`
	Lodging string `json:"lodging"`
}

type entryRequest struct {
	ID             string        `json:"id"`
	Date           string        `json:"date"`
	DayStatus      string        `json:"dayStatus"`
	Branch         string        `json:"branch"`
	DPCode         string        `json:"dpCode"`
	InspectionType string        `json:"inspectionType"`
	OnwardJourney  []legRequest  `json:"onwardJourney"`
	ReturnJourney  []legRequest  `json:"returnJourney"`
	OtherExpenses  []itemRequest `json:"otherExpenses"`
}

func (req entryRequest) toEntry() (core.Entry, error) {
	date, err := core.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse date: %w", err)
	}

	e := core.Entry{
		ID:             strings.TrimSpace(req.ID),
		Date:           date,
		DayStatus:      core.DayStatus(strings.TrimSpace(req.DayStatus)),
		Branch:         sanitizeInput(req.Branch),
		DPCode:         sanitizeInput(req.DPCode),
		InspectionType: sanitizeInput(req.InspectionType),
	}

	for _, lr := range req.OnwardJourney {
		leg, err := lr.toLeg()
		if err != nil {
			return core.Entry{}, err
		}
		e.OnwardJourney = append(e.OnwardJourney, leg)
	}
	for _, lr := range req.ReturnJourney {
		leg, err := lr.toLeg()
		if err != nil {
			return core.Entry{}, err
		}
		e.ReturnJourney = append(e.ReturnJourney, leg)
	}
	for _, ir := range req.OtherExpenses {
		halting, err := core.ParseAmount(ir.Halting)
		if err != nil {
			return core.Entry{}, fmt.Errorf("parse halting amount: %w", err)
		}
		lodging, err := core.ParseAmount(ir.Lodging)
		if err != nil {
			return core.Entry{}, fmt.Errorf("parse lodging amount: %w", err)
		}
		e.OtherExpenses = append(e.OtherExpenses, core.ExpenseItem{
			ID:      strings.TrimSpace(ir.ID),
			Halting: halting,
			Lodging: lodging,
		})
	}

	return e, nil
}

func (lr legRequest) toLeg() (core.JourneyLeg, error) {
	amount, err := core.ParseAmount(lr.Amount)
	if err != nil {
		return core.JourneyLeg{}, fmt.Errorf("parse fare amount: %w", err)
	}
	return core.JourneyLeg{
		ID:          strings.TrimSpace(lr.ID),
		From:        sanitizeInput(lr.From),
		To:          sanitizeInput(lr.To),
		StartTime:   sanitizeInput(lr.StartTime),
		ArrivedTime: sanitizeInput(lr.ArrivedTime),
		Amount:      amount,
		DistanceKM:  lr.DistanceKM,
		TravelBy:    sanitizeInput(lr.TravelBy),
	}, nil
}

type legResponse struct {
	ID          string  `json:"id"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	StartTime   string  `json:"startTime"`
	ArrivedTime string  `json:"arrivedTime"`
	Amount      string  `json:"amount"`
	DistanceKM  float64 `json:"distanceKm"`
	TravelBy    string  `json:"travelBy"`
}

type itemResponse struct {
	ID      string `json:"id"`
	Halting string `json:"halting"`
	Lodging string `json:"lodging"`
}

type entryResponse struct {
	ID             string         `json:"id"`
	Date           string         `json:"date"`
	DayStatus      string         `json:"dayStatus"`
	Branch         string         `json:"branch"`
	DPCode         string         `json:"dpCode"`
	InspectionType string         `json:"inspectionType"`
	OnwardJourney  []legResponse  `json:"onwardJourney"`
	ReturnJourney  []legResponse  `json:"returnJourney"`
	OtherExpenses  []itemResponse `json:"otherExpenses"`
	LastSavedAt    string         `json:"lastSavedAt,omitempty"`
}

func toEntryResponse(e core.Entry) entryResponse {
	resp := entryResponse{
		ID:             e.ID,
		Date:           e.Date.String(),
		DayStatus:      string(e.DayStatus),
		Branch:         e.Branch,
		DPCode:         e.DPCode,
		InspectionType: e.InspectionType,
	}
	for _, leg := range e.OnwardJourney {
		resp.OnwardJourney = append(resp.OnwardJourney, toLegResponse(leg))
	}
	for _, leg := range e.ReturnJourney {
		resp.ReturnJourney = append(resp.ReturnJourney, toLegResponse(leg))
	}
	for _, item := range e.OtherExpenses {
		resp.OtherExpenses = append(resp.OtherExpenses, itemResponse{
			ID:      item.ID,
			Halting: item.Halting.Format(),
			Lodging: item.Lodging.Format(),
		})
	}
	if e.LastSavedAt != nil {
		resp.LastSavedAt = e.LastSavedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toLegResponse(leg core.JourneyLeg) legResponse {
	return legResponse{
		ID:          leg.ID,
		From:        leg.From,
		To:          leg.To,
		StartTime:   leg.StartTime,
		ArrivedTime: leg.ArrivedTime,
		Amount:      leg.Amount.Format(),
		DistanceKM:  leg.DistanceKM,
		TravelBy:    leg.TravelBy,
	}
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleSaveEntry(w, r)
	case http.MethodGet:
		s.handleListEntries(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSaveEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	entry, err := req.toEntry()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	saved, err := s.store.SaveEntry(ctx, entry)
	switch {
	case errors.Is(err, store.ErrDuplicateDate):
		http.Error(w, "An entry is already saved for this date", http.StatusConflict)
		return
	case err != nil:
		if isValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.ErrorContext(ctx, "Failed to save entry", "error", err)
		http.Error(w, "Failed to save entry", http.StatusInternalServerError)
		return
	}

	s.invalidateMonth(core.Month{Year: saved.Date.Year, Month: saved.Date.Month})

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toEntryResponse(saved)); err != nil {
		slog.ErrorContext(ctx, "Failed to encode response", "error", err)
	}
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	month, err := parseMonth(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := s.store.ListEntries(ctx, month)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list entries", "error", err)
		http.Error(w, "Failed to list entries", http.StatusInternalServerError)
		return
	}

	resp := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toEntryResponse(e))
	}
	writeJSON(ctx, w, resp)
}

func (s *Server) handleEntryByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := strings.TrimPrefix(r.URL.Path, "/entries/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Invalid entry id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		entry, err := s.store.GetEntry(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Entry not found", http.StatusNotFound)
			return
		}
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get entry", "id", id, "error", err)
			http.Error(w, "Failed to get entry", http.StatusInternalServerError)
			return
		}
		writeJSON(ctx, w, toEntryResponse(entry))

	case http.MethodDelete:
		// Fetch first so the month cache can be invalidated.
		entry, err := s.store.GetEntry(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Entry not found", http.StatusNotFound)
			return
		}
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get entry", "id", id, "error", err)
			http.Error(w, "Failed to delete entry", http.StatusInternalServerError)
			return
		}

		if err := s.store.DeleteEntry(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "Entry not found", http.StatusNotFound)
				return
			}
			slog.ErrorContext(ctx, "Failed to delete entry", "id", id, "error", err)
			http.Error(w, "Failed to delete entry", http.StatusInternalServerError)
			return
		}

		s.invalidateMonth(core.Month{Year: entry.Date.Year, Month: entry.Date.Month})
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type reportResponse struct {
	Month    string              `json:"month"`
	Label    string              `json:"label"`
	Branches []branchSegmentView `json:"branchSegments"`
	Leaves   []leaveSegmentView  `json:"leaveSegments"`
	Holidays []holidayBucketView `json:"holidayBuckets"`
	Days     dayTotalsView       `json:"days"`
	Totals   totalsView          `json:"totals"`
	Entries  []entryResponse     `json:"entries"`
}

type branchSegmentView struct {
	Branch         string `json:"branch"`
	DPCode         string `json:"dpCode"`
	InspectionType string `json:"inspectionType"`
	From           string `json:"from"`
	To             string `json:"to"`
	ManDays        int    `json:"manDays"`
	Days           []int  `json:"days"`
}

type leaveSegmentView struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count int    `json:"count"`
	Days  []int  `json:"days"`
}

type holidayBucketView struct {
	Nature string `json:"nature"`
	Count  int    `json:"count"`
	Days   []int  `json:"days"`
}

type dayTotalsView struct {
	ManDays  int `json:"manDays"`
	Leaves   int `json:"leaves"`
	Holidays int `json:"holidays"`
	Grand    int `json:"grand"`
}

type totalsView struct {
	Halting string `json:"halting"`
	Lodging string `json:"lodging"`
	Travel  string `json:"travel"`
	Total   string `json:"total"`
}

func toReportResponse(r report.Report) reportResponse {
	resp := reportResponse{
		Month: r.Snapshot.Month.String(),
		Label: r.Snapshot.Month.Label(),
		Days: dayTotalsView{
			ManDays:  r.Days.ManDays,
			Leaves:   r.Days.Leaves,
			Holidays: r.Days.Holidays,
			Grand:    r.Days.Grand,
		},
		Totals: totalsView{
			Halting: r.Totals.Halting.Format(),
			Lodging: r.Totals.Lodging.Format(),
			Travel:  r.Totals.Travel.Format(),
			Total:   r.Totals.Total.Format(),
		},
	}
	for _, seg := range r.Branches {
		resp.Branches = append(resp.Branches, branchSegmentView{
			Branch:         seg.Branch,
			DPCode:         seg.DPCode,
			InspectionType: seg.InspectionType,
			From:           seg.From.String(),
			To:             seg.To.String(),
			ManDays:        seg.ManDays,
			Days:           seg.Days,
		})
	}
	for _, seg := range r.Leaves {
		resp.Leaves = append(resp.Leaves, leaveSegmentView{
			From:  seg.From.String(),
			To:    seg.To.String(),
			Count: seg.Count,
			Days:  seg.Days,
		})
	}
	for _, bucket := range r.Holidays {
		resp.Holidays = append(resp.Holidays, holidayBucketView{
			Nature: bucket.Nature,
			Count:  bucket.Count,
			Days:   bucket.Days,
		})
	}
	for _, e := range r.Snapshot.Entries {
		resp.Entries = append(resp.Entries, toEntryResponse(e))
	}
	return resp
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	month, err := parseMonth(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rep, err := s.buildReport(ctx, month)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build report", "month", month.String(), "error", err)
		http.Error(w, "Failed to build report", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, toReportResponse(rep))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	month, err := parseMonth(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	key := s.monthCacheKey(month)
	doc, ok := s.exportCache.Get(key)
	if !ok {
		rep, err := s.buildReport(ctx, month)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to build report", "month", month.String(), "error", err)
			http.Error(w, "Failed to build export", http.StatusInternalServerError)
			return
		}

		profile, err := s.store.GetProfile(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load profile", "error", err)
			http.Error(w, "Failed to build export", http.StatusInternalServerError)
			return
		}

		currency := profile.Currency
		if currency == "" {
			currency = "INR"
		}
		doc = export.Document(rep, export.Meta{
			TourName:      profile.TourName,
			InspectorName: profile.Name,
			EmployeeID:    profile.EmployeeID,
			Currency:      currency,
		})
		s.exportCache.Set(key, doc)
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(month)))
	w.Write([]byte(doc))
}

type profilePayload struct {
	Name       string `json:"name"`
	EmployeeID string `json:"employeeId"`
	Mobile     string `json:"mobile"`
	Email      string `json:"email"`
	Unit       string `json:"unit"`
	ZI         string `json:"zi"`
	TourName   string `json:"tourName"`
	Currency   string `json:"currency"`
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		p, err := s.store.GetProfile(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load profile", "error", err)
			http.Error(w, "Failed to load profile", http.StatusInternalServerError)
			return
		}
		writeJSON(ctx, w, profilePayload{
			Name:       p.Name,
			EmployeeID: p.EmployeeID,
			Mobile:     p.Mobile,
			Email:      p.Email,
			Unit:       p.Unit,
			ZI:         p.ZI,
			TourName:   p.TourName,
			Currency:   p.Currency,
		})

	case http.MethodPut:
		var req profilePayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON body", http.StatusBadRequest)
			return
		}

		p := core.Profile{
			Name:       sanitizeInput(req.Name),
			EmployeeID: sanitizeInput(req.EmployeeID),
			Mobile:     sanitizeInput(req.Mobile),
			Email:      sanitizeInput(req.Email),
			Unit:       sanitizeInput(req.Unit),
			ZI:         sanitizeInput(req.ZI),
			TourName:   sanitizeInput(req.TourName),
			Currency:   sanitizeInput(req.Currency),
		}
		if err := s.store.UpdateProfile(ctx, p); err != nil {
			slog.ErrorContext(ctx, "Failed to update profile", "error", err)
			http.Error(w, "Failed to update profile", http.StatusInternalServerError)
			return
		}

		// The profile feeds the export header block.
		s.exportCache.Purge()
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// parseMonth reads year and month query parameters, defaulting to the
// current month.
func parseMonth(r *http.Request) (core.Month, error) {
	now := time.Now()
	month := core.Month{Year: now.Year(), Month: int(now.Month())}

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return core.Month{}, fmt.Errorf("invalid year %q", v)
		}
		month.Year = y
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return core.Month{}, fmt.Errorf("invalid month %q", v)
		}
		month.Month = m
	}

	if err := month.Validate(); err != nil {
		return core.Month{}, err
	}
	return month, nil
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrZeroDate,
		core.ErrInvalidDay,
		core.ErrInvalidMonth,
		core.ErrInvalidAmount,
		core.ErrInvalidDayStatus,
		core.ErrEmptyBranch,
		core.ErrEmptyInspectionType,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "Failed to encode response", "error", err)
	}
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
