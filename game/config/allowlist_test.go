package config

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func warnings(hook *test.Hook) []string {
	var msgs []string
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			msgs = append(msgs, entry.Message)
		}
	}
	return msgs
}

func TestAllowList(t *testing.T) {
	a := NewAllowList("123", "0042", "abc", "")

	assert.Equal(t, 2, a.Len())
	assert.True(t, a.Allowed("123"))
	assert.True(t, a.Allowed("42"))
	assert.True(t, a.Allowed(" 042 "))
	assert.False(t, a.Allowed("abc"))
	assert.False(t, a.Allowed("999"))
	assert.Equal(t, []string{"42", "123"}, a.IDs())
}

func TestLoadAllowedChannels(t *testing.T) {
	t.Run("default channel and file are merged", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "allowed_channels.txt", "111\n  222  \nnot-a-channel\n\n-5\n111\n")
		logger, hook := test.NewNullLogger()

		a := LoadAllowedChannels("333", path, logger)

		assert.Equal(t, []string{"111", "222", "333"}, a.IDs())
		assert.Empty(t, warnings(hook))
	})

	t.Run("invalid default channel is ignored", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "allowed_channels.txt", "111\n")
		logger, hook := test.NewNullLogger()

		a := LoadAllowedChannels("general", path, logger)

		assert.Equal(t, []string{"111"}, a.IDs())
		assert.Equal(t, []string{"invalid DEFAULT_CHANNEL_ID, ignoring it"}, warnings(hook))
	})

	t.Run("missing file with default channel", func(t *testing.T) {
		logger, hook := test.NewNullLogger()

		a := LoadAllowedChannels("333", filepath.Join(t.TempDir(), "missing.txt"), logger)

		assert.Equal(t, 1, a.Len())
		assert.Empty(t, warnings(hook))
	})

	t.Run("missing file and no default channel", func(t *testing.T) {
		logger, hook := test.NewNullLogger()

		a := LoadAllowedChannels("", filepath.Join(t.TempDir(), "missing.txt"), logger)

		assert.Zero(t, a.Len())
		assert.False(t, a.Allowed("1"))
		assert.Len(t, warnings(hook), 1)
	})

	t.Run("file without valid ids", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "allowed_channels.txt", "foo\nbar\n")
		logger, hook := test.NewNullLogger()

		a := LoadAllowedChannels("", path, logger)

		assert.Zero(t, a.Len())
		assert.Equal(t, []string{"no valid channel IDs found in allow-list file or DEFAULT_CHANNEL_ID"}, warnings(hook))
	})
}
