package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func runesToStrings(rs [][]rune) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}

func TestCommandCompleter_Commands(t *testing.T) {
	c := NewCommandCompleter(nil)

	suggestions, offset := c.Do([]rune(`\mo`), 3)
	assert.Equal(t, []string{"del"}, runesToStrings(suggestions))
	assert.Equal(t, 3, offset)

	suggestions, _ = c.Do([]rune(`\`), 1)
	assert.Len(t, suggestions, len(commandTable))

	suggestions, offset = c.Do([]rune("plain text"), 10)
	assert.Nil(t, suggestions)
	assert.Equal(t, 0, offset)
}

func TestCommandCompleter_Models(t *testing.T) {
	c := NewCommandCompleter(func() []string {
		return []string{"llama3-70b-8192", "deepseek-r1-distill-llama-70b", "deepseek-r1-distill-qwen-32b"}
	})

	line := `\model deepseek-r1-distill-`
	suggestions, offset := c.Do([]rune(line), len(line))
	assert.Equal(t, []string{"llama-70b", "qwen-32b"}, runesToStrings(suggestions))
	assert.Equal(t, len("deepseek-r1-distill-"), offset)
}

func TestLookupCommand(t *testing.T) {
	cmd, ok := lookupCommand("quit")
	assert.True(t, ok)
	assert.Equal(t, "exit", cmd.name)

	_, ok = lookupCommand("bogus")
	assert.False(t, ok)
}
