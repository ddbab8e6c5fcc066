// Package notify provides notification dispatch and formatting for sinks.
package notify

import (
	"github.com/materna-cli/materna/internal/model"
)

// Formatter formats notifications for a specific sink type.
type Formatter interface {
	// Format converts a notification into the sink-specific payload.
	Format(n *model.Notification) ([]byte, error)

	// ContentType returns the HTTP Content-Type for the payload.
	ContentType() string
}

// GetFormatter returns the appropriate formatter for a sink type.
func GetFormatter(sinkType string) Formatter {
	switch sinkType {
	case model.SinkTypeDiscord:
		return &DiscordFormatter{}
	case model.SinkTypeSlack:
		return &SlackFormatter{}
	default:
		return &GenericFormatter{}
	}
}
