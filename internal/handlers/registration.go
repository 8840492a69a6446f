package handlers

import (
	"context"

	"github.com/campus-events/event-reg/internal/cascade"
	"github.com/campus-events/event-reg/internal/workflow"
	"github.com/danielgtaylor/huma/v2"
)

type OptionObserver interface {
	ObserveOptionResolution(field string)
}

type RegistrationHandler struct {
	workflow *workflow.Workflow
	observer OptionObserver
}

func NewRegistrationHandler(wf *workflow.Workflow, observer OptionObserver) *RegistrationHandler {
	return &RegistrationHandler{workflow: wf, observer: observer}
}

type SelectionInput struct {
	Category  string `query:"category" doc:"Selected category"`
	EventDate int64  `query:"event_date" doc:"Selected event date (Unix seconds)"`
	EventName uint   `query:"event_name" doc:"Selected event id"`
}

func (in SelectionInput) selection() cascade.Selection {
	return cascade.Selection{Category: in.Category, EventDate: in.EventDate, EventID: in.EventName}
}

type FormResponse struct {
	Body struct {
		Open    bool             `json:"open"`
		Message string           `json:"message,omitempty"`
		Fields  []workflow.Field `json:"fields"`
		Cleared []string         `json:"cleared,omitempty" doc:"Fields whose stale selection was dropped"`
	}
}

func (h *RegistrationHandler) HandleForm(ctx context.Context, input *SelectionInput) (*FormResponse, error) {
	form, err := h.workflow.Form(ctx, input.selection())
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to build registration form: " + err.Error())
	}

	res := &FormResponse{}
	res.Body.Open = form.Open
	res.Body.Message = form.Message
	res.Body.Fields = form.Fields
	if res.Body.Fields == nil {
		res.Body.Fields = []workflow.Field{}
	}
	res.Body.Cleared = form.Cleared
	return res, nil
}

type OptionsRequest struct {
	SelectionInput
	Changed string `query:"changed" enum:"category,event_date" doc:"Upstream field that changed; only the fields below it are returned"`
}

type OptionsResponse struct {
	Body struct {
		EventDate []cascade.Option `json:"event_date,omitempty"`
		EventName []cascade.Option `json:"event_name"`
		Selection struct {
			Category  string `json:"category"`
			EventDate int64  `json:"event_date"`
			EventName uint   `json:"event_name"`
		} `json:"selection"`
		Cleared []string `json:"cleared,omitempty"`
	}
}

// HandleOptions resolves the dropdowns that depend on the changed field.
func (h *RegistrationHandler) HandleOptions(ctx context.Context, input *OptionsRequest) (*OptionsResponse, error) {
	resolution, err := h.workflow.Resolve(ctx, input.selection())
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to resolve options: " + err.Error())
	}

	changed := input.Changed
	if changed == "" {
		changed = cascade.FieldCategory
	}
	if h.observer != nil {
		h.observer.ObserveOptionResolution(changed)
	}

	res := &OptionsResponse{}
	if changed == cascade.FieldCategory {
		res.Body.EventDate = resolution.Dates
	}
	res.Body.EventName = resolution.Events
	res.Body.Selection.Category = resolution.Selection.Category
	res.Body.Selection.EventDate = resolution.Selection.EventDate
	res.Body.Selection.EventName = resolution.Selection.EventID
	res.Body.Cleared = resolution.Cleared
	return res, nil
}

type RegistrationRequest struct {
	Body struct {
		FullName   string `json:"full_name,omitempty" doc:"Letters and spaces only"`
		Email      string `json:"email,omitempty"`
		College    string `json:"college,omitempty" doc:"Letters and spaces only"`
		Department string `json:"department,omitempty" doc:"Letters and spaces only"`
		Category   string `json:"category,omitempty"`
		EventDate  int64  `json:"event_date,omitempty" doc:"Event date (Unix seconds)"`
		EventName  uint   `json:"event_name,omitempty" doc:"Event id"`
	}
}

type RegistrationResponse struct {
	Body struct {
		Message        string `json:"message"`
		RegistrationID uint   `json:"registration_id"`
	}
}

func (h *RegistrationHandler) HandleRegister(ctx context.Context, input *RegistrationRequest) (*RegistrationResponse, error) {
	outcome, err := h.workflow.Submit(ctx, workflow.Submission{
		FullName:   input.Body.FullName,
		Email:      input.Body.Email,
		College:    input.Body.College,
		Department: input.Body.Department,
		Category:   input.Body.Category,
		EventDate:  input.Body.EventDate,
		EventID:    input.Body.EventName,
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to process registration: " + err.Error())
	}

	switch outcome.Status {
	case workflow.StatusClosed:
		return nil, huma.Error403Forbidden(outcome.Message)
	case workflow.StatusRejected:
		details := make([]error, 0, len(outcome.Errors))
		for _, fe := range outcome.Errors {
			details = append(details, &huma.ErrorDetail{
				Message:  fe.Message,
				Location: "body." + fe.Field,
			})
		}
		return nil, huma.Error422UnprocessableEntity("Registration could not be accepted", details...)
	}

	res := &RegistrationResponse{}
	res.Body.Message = outcome.Message
	res.Body.RegistrationID = outcome.RegistrationID
	return res, nil
}
