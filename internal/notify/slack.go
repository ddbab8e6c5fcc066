package notify

import (
	"encoding/json"
	"fmt"

	"github.com/materna-cli/materna/internal/model"
)

// SlackFormatter renders notifications as Slack Block Kit payloads.
type SlackFormatter struct{}

type slackPayload struct {
	Text        string        `json:"text,omitempty"`
	Blocks      []slackBlock  `json:"blocks,omitempty"`
	Attachments []slackAttach `json:"attachments,omitempty"`
}

type slackBlock struct {
	Type   string           `json:"type"`
	Text   *slackBlockText  `json:"text,omitempty"`
	Fields []slackBlockText `json:"fields,omitempty"`
}

type slackBlockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// slackAttach carries the color bar; blocks themselves cannot be colored.
type slackAttach struct {
	Color    string `json:"color,omitempty"`
	Fallback string `json:"fallback,omitempty"`
}

// Format builds header, message, optional fields, and a context block
// naming the reminder kind and time.
func (f *SlackFormatter) Format(n *model.Notification) ([]byte, error) {
	blocks := []slackBlock{
		{Type: "header", Text: &slackBlockText{Type: "plain_text", Text: n.Title}},
		{Type: "section", Text: &slackBlockText{Type: "mrkdwn", Text: n.Message}},
	}

	if len(n.Fields) > 0 {
		var fieldTexts []slackBlockText
		for key, value := range n.Fields {
			fieldTexts = append(fieldTexts, slackBlockText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*%s*\n%s", key, value),
			})
		}
		blocks = append(blocks, slackBlock{Type: "section", Fields: fieldTexts})
	}

	blocks = append(blocks, slackBlock{
		Type: "context",
		Text: &slackBlockText{
			Type: "mrkdwn",
			Text: fmt.Sprintf("Materna %s | %s", n.KindLabel(), n.Timestamp.Format("Jan 2, 3:04 PM")),
		},
	})

	return json.Marshal(slackPayload{
		Text:   fmt.Sprintf("*%s*", n.Title), // fallback for plain clients
		Blocks: blocks,
		Attachments: []slackAttach{{
			Color:    colorToHex(n.Color),
			Fallback: n.Title,
		}},
	})
}

// ContentType returns the content type for Slack webhooks.
func (f *SlackFormatter) ContentType() string {
	return "application/json"
}

func colorToHex(color int) string {
	return fmt.Sprintf("#%06X", color)
}
