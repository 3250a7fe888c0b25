package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusInspection DayStatus = "Inspection"
	StatusLeave      DayStatus = "Leave"
	StatusHoliday    DayStatus = "Holiday"
)

type (
	// DayStatus is the manually chosen classification of a day. The three
	// values are mutually exclusive; holiday auto-detection can still
	// override Leave and Inspection in reports.
	DayStatus string

	// JourneyLeg is one leg of the onward or return journey of a day.
	JourneyLeg struct {
		ID          string
		From        string
		To          string
		StartTime   string // free-form HH:MM from the entry form
		ArrivedTime string
		Amount      Money
		DistanceKM  float64
		TravelBy    string
	}

	// ExpenseItem is one allowance line of a day.
	ExpenseItem struct {
		ID      string
		Halting Money
		Lodging Money
	}

	// Entry is one calendar day's record. A nil LastSavedAt marks a live
	// draft; only saved entries participate in reporting.
	Entry struct {
		ID             string
		Date           Date
		DayStatus      DayStatus
		Branch         string
		DPCode         string
		InspectionType string
		OnwardJourney  []JourneyLeg
		ReturnJourney  []JourneyLeg
		OtherExpenses  []ExpenseItem
		LastSavedAt    *time.Time
	}

	// Profile carries the inspector identity and tour metadata printed in
	// the export header.
	Profile struct {
		Name       string
		EmployeeID string
		Mobile     string
		Email      string
		Unit       string
		ZI         string
		TourName   string
		Currency   string
	}
)

var (
	ErrZeroDate            = errors.New("date cannot be zero")
	ErrInvalidDay          = errors.New("invalid day")
	ErrInvalidMonth        = errors.New("invalid month")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDayStatus    = errors.New("invalid day status")
	ErrEmptyBranch         = errors.New("empty branch")
	ErrEmptyInspectionType = errors.New("empty inspection type")
)

// Saved reports whether the entry is an immutable, reportable snapshot.
func (e Entry) Saved() bool {
	return e.LastSavedAt != nil
}

func (s DayStatus) Valid() bool {
	switch s {
	case StatusInspection, StatusLeave, StatusHoliday:
		return true
	}
	return false
}

func (e Entry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !e.DayStatus.Valid() {
		return ErrInvalidDayStatus
	}
	if e.DayStatus == StatusInspection {
		if strings.TrimSpace(e.Branch) == "" {
			return ErrEmptyBranch
		}
		if strings.TrimSpace(e.InspectionType) == "" {
			return ErrEmptyInspectionType
		}
	}
	for _, leg := range e.OnwardJourney {
		if leg.Amount.Cents < 0 {
			return ErrInvalidAmount
		}
	}
	for _, leg := range e.ReturnJourney {
		if leg.Amount.Cents < 0 {
			return ErrInvalidAmount
		}
	}
	for _, item := range e.OtherExpenses {
		if item.Halting.Cents < 0 || item.Lodging.Cents < 0 {
			return ErrInvalidAmount
		}
	}
	return nil
}
