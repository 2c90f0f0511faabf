package alert

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Channels is a comma-separated list of notification channels stored in
// a single text column.
type Channels []Channel

// Append returns the list with the channel added, skipping duplicates
func (c Channels) Append(channel Channel) Channels {
	for _, existing := range c {
		if existing == channel {
			return c
		}
	}
	return append(c, channel)
}

// Contains reports whether the channel is in the list
func (c Channels) Contains(channel Channel) bool {
	for _, existing := range c {
		if existing == channel {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer
func (c Channels) Value() (driver.Value, error) {
	if len(c) == 0 {
		return "", nil
	}
	parts := make([]string, len(c))
	for i, channel := range c {
		parts[i] = string(channel)
	}
	return strings.Join(parts, ","), nil
}

// Scan implements sql.Scanner
func (c *Channels) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported channels column type %T", value)
	}
	if raw == "" {
		*c = nil
		return nil
	}
	parts := strings.Split(raw, ",")
	channels := make(Channels, 0, len(parts))
	for _, part := range parts {
		channels = append(channels, Channel(strings.TrimSpace(part)))
	}
	*c = channels
	return nil
}
