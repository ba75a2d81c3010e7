package terminal

import (
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapeview/internal/commands"
	"shapeview/internal/logger"
)

func TestSubmitRunsCommandsAndLogsErrors(t *testing.T) {
	log := logger.Discard()
	reg := commands.NewRegistry()
	var ran int
	reg.Register("ping", "", flagSet(), func() error {
		ran++
		return nil
	})
	term := New(log, reg)

	term.Submit("cmd ping")
	term.Submit("just words")
	term.Submit("cmd pong")
	term.Submit("")

	assert.Equal(t, 1, ran)
	lines := log.Lines()
	require.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[0], "> cmd ping"))
	assert.True(t, strings.HasSuffix(lines[1], "> just words"))
	assert.True(t, strings.HasSuffix(lines[3], "unknown command: pong"))
}

func TestToggle(t *testing.T) {
	term := New(logger.Discard(), commands.NewRegistry())
	assert.False(t, term.IsOpen())
	term.Toggle()
	assert.True(t, term.IsOpen())
}

func TestTailAndClip(t *testing.T) {
	assert.Equal(t, []string{"c", "d"}, tail([]string{"a", "b", "c", "d"}, 2))
	assert.Equal(t, []string{"a"}, tail([]string{"a"}, 2))

	long := strings.Repeat("x", maxLineChars+1)
	assert.Len(t, clip(long), maxLineChars)
	assert.True(t, strings.HasSuffix(clip(long), "..."))
	assert.Equal(t, "short", clip("short"))
}

func flagSet() *flag.FlagSet {
	return flag.NewFlagSet("ping", flag.ContinueOnError)
}
