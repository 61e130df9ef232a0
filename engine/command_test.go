package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	for _, c := range Commands {
		got, err := ParseCommand(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	got, err := ParseCommand(" Hard-Drop ")
	require.NoError(t, err)
	assert.Equal(t, CmdHardDrop, got)

	_, err = ParseCommand("none")
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = ParseCommand("teleport")
	assert.ErrorIs(t, err, ErrUnknownCommand)

	assert.Equal(t, "Command(99)", Command(99).String())
}
