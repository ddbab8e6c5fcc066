package notify

import (
	"bytes"
	"encoding/json"
	"text/template"

	"github.com/materna-cli/materna/internal/model"
)

// GenericFormatter renders notifications for arbitrary JSON webhooks.
// With a template set, the payload is whatever the template produces;
// otherwise a flat JSON object is sent.
type GenericFormatter struct {
	Template string
}

// NewGenericFormatter creates a formatter with an optional custom template.
func NewGenericFormatter(template string) *GenericFormatter {
	return &GenericFormatter{Template: template}
}

type genericPayload struct {
	Kind      string            `json:"kind"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Priority  string            `json:"priority"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp string            `json:"timestamp"`
	Color     int               `json:"color,omitempty"`
}

// Format renders the notification, through the template when one is set.
func (f *GenericFormatter) Format(n *model.Notification) ([]byte, error) {
	if f.Template == "" {
		return json.Marshal(genericPayload{
			Kind:      string(n.Kind),
			Title:     n.Title,
			Message:   n.Message,
			Priority:  n.Priority.Label(),
			Fields:    n.Fields,
			Timestamp: n.Timestamp.Format("2006-01-02T15:04:05Z"),
			Color:     n.Color,
		})
	}

	tmpl, err := template.New("sink").Parse(f.Template)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, map[string]interface{}{
		"Kind":      string(n.Kind),
		"Title":     n.Title,
		"Message":   n.Message,
		"Priority":  n.Priority.Label(),
		"Fields":    n.Fields,
		"Timestamp": n.Timestamp,
		"Color":     n.Color,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ContentType returns the content type for generic sinks.
func (f *GenericFormatter) ContentType() string {
	return "application/json"
}
