package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/frahmantamala/leave-management/internal/core/events"
)

//go:embed templates/*.html
var templateFS embed.FS

type Renderer struct {
	templates    *template.Template
	organization string
	portalURL    string
}

func NewRenderer(organization, portalURL string) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse notification templates: %w", err)
	}
	return &Renderer{templates: tmpl, organization: organization, portalURL: portalURL}, nil
}

type templateData struct {
	Organization    string
	PortalURL       string
	RecipientName   string
	EmployeeName    string
	EmployeeEmail   string
	ApproverName    string
	LeaveType       string
	StartDate       string
	EndDate         string
	DaysRequested   int
	Reason          string
	RejectionReason string
	DecidedOn       string
}

func (r *Renderer) base(recipient string, leave events.LeaveDetails) templateData {
	return templateData{
		Organization:  r.organization,
		PortalURL:     r.portalURL,
		RecipientName: recipient,
		LeaveType:     leave.LeaveType,
		StartDate:     leave.StartDate.Format(time.DateOnly),
		EndDate:       leave.EndDate.Format(time.DateOnly),
		DaysRequested: leave.DaysRequested,
		Reason:        leave.Reason,
	}
}

func (r *Renderer) execute(name string, data templateData) (string, error) {
	var body bytes.Buffer
	if err := r.templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return body.String(), nil
}

// Submitted renders the message sent to the submitter's manager.
func (r *Renderer) Submitted(e *events.LeaveSubmittedEvent) (Message, error) {
	if e.Manager == nil {
		return Message{}, fmt.Errorf("submitted event %s has no manager", e.EventID())
	}
	data := r.base(e.Manager.Name, e.Leave)
	data.EmployeeName = e.Employee.Name
	data.EmployeeEmail = e.Employee.Email

	html, err := r.execute("submitted.html", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      e.Manager.Email,
		Subject: fmt.Sprintf(SubjectSubmittedFormat, e.Employee.Name),
		HTML:    html,
	}, nil
}

// Decided renders the approval or rejection message sent to the submitter.
func (r *Renderer) Decided(e *events.LeaveDecidedEvent) (Message, error) {
	data := r.base(e.Employee.Name, e.Leave)
	data.ApproverName = e.Approver.Name
	data.DecidedOn = e.DecidedAt.UTC().Format("02 Jan 2006 15:04 MST")

	name, subject := "approved.html", SubjectApproved
	if !e.Approved() {
		name, subject = "rejected.html", SubjectRejected
		data.RejectionReason = e.RejectionReason
		if data.RejectionReason == "" {
			data.RejectionReason = NoReasonPlaceholder
		}
	}

	html, err := r.execute(name, data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: e.Employee.Email, Subject: subject, HTML: html}, nil
}

func (r *Renderer) Test(to string) (Message, error) {
	html, err := r.execute("test.html", templateData{
		Organization:  r.organization,
		PortalURL:     r.portalURL,
		RecipientName: to,
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: SubjectTest, HTML: html}, nil
}
