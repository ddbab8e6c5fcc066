package notify

import (
	"encoding/json"

	"github.com/materna-cli/materna/internal/model"
)

// DiscordFormatter renders notifications as Discord webhook embeds.
type DiscordFormatter struct{}

type discordPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds,omitempty"`
}

type discordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Footer      *discordEmbedFooter `json:"footer,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type discordEmbedFooter struct {
	Text string `json:"text"`
}

// Format builds a single embed with the notification fields inlined and
// the reminder kind in the footer.
func (f *DiscordFormatter) Format(n *model.Notification) ([]byte, error) {
	fields := make([]discordEmbedField, 0, len(n.Fields))
	for key, value := range n.Fields {
		fields = append(fields, discordEmbedField{Name: key, Value: value, Inline: true})
	}

	return json.Marshal(discordPayload{
		Embeds: []discordEmbed{{
			Title:       n.Title,
			Description: n.Message,
			Color:       n.Color,
			Fields:      fields,
			Footer:      &discordEmbedFooter{Text: "Materna " + n.KindLabel()},
			Timestamp:   n.Timestamp.Format("2006-01-02T15:04:05Z"),
		}},
	})
}

// ContentType returns the content type for Discord webhooks.
func (f *DiscordFormatter) ContentType() string {
	return "application/json"
}
