package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Sink type constants.
const (
	SinkTypeDiscord = "discord"
	SinkTypeSlack   = "slack"
	SinkTypeGeneric = "generic"
)

// Sink is a notification delivery target. The engine itself never renders
// popups; it hands fired reminders to sinks (webhook endpoints).
type Sink struct {
	Key       string    `json:"key"`
	Name      string    `json:"name" validate:"required,max=50"`
	Type      string    `json:"type" validate:"required,oneof=discord slack generic"`
	URL       string    `json:"url" validate:"required,url"`
	Enabled   bool      `json:"enabled"`
	Template  string    `json:"template,omitempty"` // generic sinks only
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// SetKey sets the database key for this sink.
func (s *Sink) SetKey(key string) {
	s.Key = key
}

// GetKey returns the database key for this sink.
func (s *Sink) GetKey() string {
	return s.Key
}

// IsEnabled returns true if the sink is enabled.
func (s *Sink) IsEnabled() bool {
	return s.Enabled
}

// MaskedURL returns the URL with sensitive parts masked.
func (s *Sink) MaskedURL() string {
	if len(s.URL) > 40 {
		return s.URL[:30] + "***"
	}
	return s.URL
}

// GenerateSinkKey generates a database key for a sink.
func GenerateSinkKey(name string) string {
	return fmt.Sprintf("%s:%s", PrefixSink, name)
}

// NewSink creates a new enabled sink.
func NewSink(name, sinkType, url string) *Sink {
	return &Sink{
		Key:       GenerateSinkKey(name),
		Name:      name,
		Type:      sinkType,
		URL:       url,
		Enabled:   true,
		CreatedAt: time.Now(),
	}
}

// ValidSinkTypes returns the list of valid sink types.
func ValidSinkTypes() []string {
	return []string{SinkTypeDiscord, SinkTypeSlack, SinkTypeGeneric}
}

// IsValidSinkType checks if a type is valid.
func IsValidSinkType(t string) bool {
	for _, valid := range ValidSinkTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// sinkNameRegex validates sink names (alphanumeric, dash, underscore).
var sinkNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// IsValidSinkName checks if a sink name is valid.
func IsValidSinkName(name string) bool {
	if len(name) == 0 || len(name) > 50 {
		return false
	}
	return sinkNameRegex.MatchString(name)
}

// DetectSinkType attempts to detect the sink type from the URL.
func DetectSinkType(url string) string {
	urlLower := strings.ToLower(url)

	switch {
	case strings.Contains(urlLower, "discord.com/api/webhooks"):
		return SinkTypeDiscord
	case strings.Contains(urlLower, "hooks.slack.com"):
		return SinkTypeSlack
	default:
		return SinkTypeGeneric
	}
}
