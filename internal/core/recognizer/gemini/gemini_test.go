package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrompt(t *testing.T) {
	assert.Equal(t, transcribePrompt, prompt(nil))
	assert.Equal(t, transcribePrompt+" The text is in Portuguese.", prompt([]string{"por"}))
	assert.Equal(t, transcribePrompt+" The text is in Portuguese or English.", prompt([]string{"por", "eng", "xxx"}))
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, "NOME\nCPF", stripFences("```text\nNOME\nCPF\n```"))
	assert.Equal(t, "NOME", stripFences("  NOME \n"))
}
