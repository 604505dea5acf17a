package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptTemplate_Format(t *testing.T) {
	tmpl := NewPromptTemplate("contexto: {contexto}\npergunta: {pergunta}\n{contexto}")
	assert.Equal(t, []string{"contexto", "pergunta"}, tmpl.Placeholders())

	out, err := tmpl.Format(map[string]string{
		"contexto": "uses {pergunta} literally",
		"pergunta": "why?",
	})
	require.NoError(t, err)
	assert.Equal(t, "contexto: uses {pergunta} literally\npergunta: why?\nuses {pergunta} literally", out)
}

func TestPromptTemplate_MissingValue(t *testing.T) {
	_, err := ChatPrompt.Format(map[string]string{"contexto": "only context"})
	assert.ErrorContains(t, err, "{pergunta}")
}

func TestBuiltinPrompts(t *testing.T) {
	assert.Equal(t, []string{"contexto", "pergunta"}, ChatPrompt.Placeholders())
	assert.Equal(t, []string{"transcricao_bruta"}, ReformatPrompt.Placeholders())
}
