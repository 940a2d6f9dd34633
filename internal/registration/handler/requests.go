package handler

import (
	"strconv"
	"strings"

	"eventreg/internal/registration/models"
	"eventreg/internal/registration/service"
	"eventreg/internal/registration/strategy"
	dErrors "eventreg/pkg/domain-errors"
)

// RegisterRequest is the body of POST /events/{eventID}/{year}/registration.
// An empty mode is derived from the event's pricing and application flag.
type RegisterRequest struct {
	Mode    string           `json:"mode"`
	Payload strategy.Payload `json:"payload"`

	parsedMode service.Mode
}

func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Mode = strings.TrimSpace(r.Mode)
	if r.Mode == "" {
		return nil
	}
	mode, err := service.ParseMode(r.Mode)
	if err != nil {
		return err
	}
	r.parsedMode = mode
	return nil
}

// ConfirmRequest is the body of POST .../registration/confirm.
type ConfirmRequest struct {
	Payload strategy.Payload `json:"payload"`
}

func (r *ConfirmRequest) Validate() error { return nil }

// ConfirmAndPayRequest is the body of POST .../registration/confirm-and-pay.
type ConfirmAndPayRequest struct {
	TargetStatus string           `json:"targetStatus"`
	Payload      strategy.Payload `json:"payload"`

	parsedTarget models.Status
}

func (r *ConfirmAndPayRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.TargetStatus = strings.TrimSpace(r.TargetStatus)
	if r.TargetStatus == "" {
		return dErrors.New(dErrors.CodeValidation, "targetStatus is required")
	}
	target, err := models.ParseStatus(r.TargetStatus)
	if err != nil {
		return err
	}
	r.parsedTarget = target
	return nil
}

// parseEventPath validates the {eventID} and {year} URL parameters.
func parseEventPath(eventID, rawYear string) (string, int, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return "", 0, dErrors.New(dErrors.CodeBadRequest, "event id is required")
	}
	year, err := strconv.Atoi(rawYear)
	if err != nil || year <= 0 {
		return "", 0, dErrors.New(dErrors.CodeBadRequest, "year must be a positive integer")
	}
	return eventID, year, nil
}
