package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// EventKeyField is the backend attribute that holds the composite event key.
const EventKeyField = "eventID;year"

// ApplicationStatusReviewing marks an application awaiting review.
const ApplicationStatusReviewing = "reviewing"

// CompositeKey builds the "<eventID>;<year>" key that identifies one event instance.
func CompositeKey(eventID string, year int) string {
	return eventID + ";" + strconv.Itoa(year)
}

// ParseCompositeKey splits an "<eventID>;<year>" key. The event id may itself
// contain semicolons; the year is everything after the last one.
func ParseCompositeKey(key string) (string, int, error) {
	idx := strings.LastIndex(key, ";")
	if idx <= 0 || idx == len(key)-1 {
		return "", 0, fmt.Errorf("malformed event key %q", key)
	}
	year, err := strconv.Atoi(key[idx+1:])
	if err != nil {
		return "", 0, fmt.Errorf("malformed event year in %q: %w", key, err)
	}
	return key[:idx], year, nil
}

// Record is a stored registration of one user for one event.
//
// Invariant: at most one Record exists per (email, event id, event year).
// Fields keeps the complete backend object, including the typed attributes
// below, so aggregations can walk form responses and basic information.
type Record struct {
	Email              string         `json:"id"`
	EventKey           string         `json:"eventID;year"`
	RegistrationStatus Status         `json:"registrationStatus"`
	ApplicationStatus  string         `json:"applicationStatus,omitempty"`
	IsPartner          *bool          `json:"isPartner,omitempty"`
	Points             *float64       `json:"points,omitempty"`
	Fields             map[string]any `json:"-"`
}

type recordAlias Record

func (r *Record) UnmarshalJSON(data []byte) error {
	var alias recordAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = Record(alias)
	r.Fields = fields
	return nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+6)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["id"] = r.Email
	out[EventKeyField] = r.EventKey
	out["registrationStatus"] = r.RegistrationStatus
	if r.ApplicationStatus != "" {
		out["applicationStatus"] = r.ApplicationStatus
	} else {
		delete(out, "applicationStatus")
	}
	if r.IsPartner != nil {
		out["isPartner"] = *r.IsPartner
	}
	if r.Points != nil {
		out["points"] = *r.Points
	}
	return json.Marshal(out)
}

// Attributes returns the open attribute bag of the record. Records built in
// code without Fields expose their typed attributes only.
func (r Record) Attributes() map[string]any {
	if r.Fields != nil {
		return r.Fields
	}
	attrs := map[string]any{
		"id":                 r.Email,
		EventKeyField:        r.EventKey,
		"registrationStatus": string(r.RegistrationStatus),
	}
	if r.ApplicationStatus != "" {
		attrs["applicationStatus"] = r.ApplicationStatus
	}
	if r.IsPartner != nil {
		attrs["isPartner"] = *r.IsPartner
	}
	if r.Points != nil {
		attrs["points"] = *r.Points
	}
	return attrs
}

// SortRecords orders records for admin tables: lowest status sort order first,
// unknown statuses last. Records with equal order keep their relative order.
func SortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return SortOrderOf(records[i].RegistrationStatus) < SortOrderOf(records[j].RegistrationStatus)
	})
}

// StatusModel names the status model that governs the records of an event.
type StatusModel string

const (
	StatusModelLegacy  StatusModel = "legacy"
	StatusModelCurrent StatusModel = "current"
)

// IsValid checks if the status model is one of the supported values.
func (m StatusModel) IsValid() bool {
	return m == StatusModelLegacy || m == StatusModelCurrent
}

// Pricing holds ticket prices; a zero price means free.
type Pricing struct {
	Members    float64 `json:"members"`
	NonMembers float64 `json:"nonMembers"`
}

// Question is one custom registration question.
type Question struct {
	QuestionID string `json:"questionId"`
	Label      string `json:"label"`
	Type       string `json:"type"`
	Required   bool   `json:"required"`
}

// Event is an event instance. It is owned by the backend and only read here.
type Event struct {
	ID                    string      `json:"id"`
	Year                  int         `json:"year"`
	Capacity              int         `json:"capac"`
	Pricing               Pricing     `json:"pricing"`
	RegistrationQuestions []Question  `json:"registrationQuestions,omitempty"`
	IsApplicationBased    bool        `json:"isApplicationBased"`
	StatusModel           StatusModel `json:"statusModel,omitempty"`
}

// Key returns the composite key of the event.
func (e Event) Key() string {
	return CompositeKey(e.ID, e.Year)
}

// IsFree reports whether registration costs nothing for the given membership.
func (e Event) IsFree(member bool) bool {
	if member {
		return e.Pricing.Members == 0
	}
	return e.Pricing.NonMembers == 0
}

// User is the account registering for events. Email is the primary identifier.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	IsMember bool   `json:"isMember"`
	Admin    bool   `json:"admin,omitempty"`
}
