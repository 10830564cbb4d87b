package config

import (
	"bufio"
	"errors"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultAllowListFile is read next to the binary when no path is given.
const DefaultAllowListFile = "allowed_channels.txt"

// AllowList is the set of channel IDs the bot answers in. It is read-only
// after construction.
type AllowList struct {
	ids map[string]struct{}
}

// NewAllowList builds an allow-list from numeric channel IDs. Anything that
// is not a number is skipped.
func NewAllowList(ids ...string) *AllowList {
	a := &AllowList{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if n, ok := parseChannelID(id); ok {
			a.ids[n] = struct{}{}
		}
	}
	return a
}

// Allowed reports whether channelID is on the list
func (a *AllowList) Allowed(channelID string) bool {
	n, ok := parseChannelID(channelID)
	if !ok {
		return false
	}
	_, found := a.ids[n]
	return found
}

// Len returns the number of allowed channels
func (a *AllowList) Len() int {
	return len(a.ids)
}

// IDs returns the allowed channel IDs in ascending order
func (a *AllowList) IDs() []string {
	ids := make([]string, 0, len(a.ids))
	for id := range a.ids {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) < len(ids[j])
		}
		return ids[i] < ids[j]
	})
	return ids
}

// LoadAllowedChannels merges defaultChannelID with the all-digit lines of the
// file at path. Problems are logged as warnings and never fail: an empty list
// simply allows nothing.
func LoadAllowedChannels(defaultChannelID, path string, log logrus.FieldLogger) *AllowList {
	a := NewAllowList()

	if defaultChannelID != "" {
		if n, ok := parseChannelID(defaultChannelID); ok {
			a.ids[n] = struct{}{}
		} else {
			log.WithField("value", defaultChannelID).Warn("invalid DEFAULT_CHANNEL_ID, ignoring it")
		}
	}

	if path == "" {
		path = DefaultAllowListFile
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if a.Len() == 0 {
				log.WithField("path", path).Warn("allow-list file not found and no valid DEFAULT_CHANNEL_ID, no channels will be allowed")
			}
		} else {
			log.WithError(err).WithField("path", path).Warn("failed to open allow-list file")
		}
		return a
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !isDigits(line) {
			continue
		}
		if n, ok := parseChannelID(line); ok {
			a.ids[n] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		log.WithError(err).WithField("path", path).Warn("failed to read allow-list file")
	}

	if a.Len() == 0 {
		log.WithField("path", path).Warn("no valid channel IDs found in allow-list file or DEFAULT_CHANNEL_ID")
	}

	return a
}

// parseChannelID normalizes a snowflake so "007" and "7" compare equal.
func parseChannelID(s string) (string, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatUint(n, 10), true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
