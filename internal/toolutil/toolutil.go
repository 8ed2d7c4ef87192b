// Package toolutil provides input helpers shared by the REST and MCP surfaces.
package toolutil

import (
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_finguide/internal/engine"
)

// NormRegion normalises a video region: empty → "in-en", lower-cased.
func NormRegion(region string) string {
	region = strings.ToLower(strings.TrimSpace(region))
	if region == "" {
		return "in-en"
	}
	return region
}

// RequireTopic trims topic and rejects blank values with engine.ErrInvalidInput.
func RequireTopic(topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", fmt.Errorf("topic is required: %w", engine.ErrInvalidInput)
	}
	return topic, nil
}

// LogTopic shortens a user-supplied topic for log attributes.
func LogTopic(topic string) string {
	return engine.TruncateRunes(topic, 80, "...")
}
