package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// PromptTemplate substitutes {name} placeholders. Every placeholder in the
// template is required.
type PromptTemplate struct {
	text         string
	placeholders []string
}

func NewPromptTemplate(text string) PromptTemplate {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return PromptTemplate{text: text, placeholders: names}
}

// Placeholders returns the placeholder names in order of first appearance.
func (p PromptTemplate) Placeholders() []string {
	return append([]string(nil), p.placeholders...)
}

// Format fills in all placeholders. Values are inserted verbatim, so braces
// inside a value are never expanded.
func (p PromptTemplate) Format(values map[string]string) (string, error) {
	for _, name := range p.placeholders {
		if _, ok := values[name]; !ok {
			return "", fmt.Errorf("prompt template: missing value for {%s}", name)
		}
	}
	return placeholderPattern.ReplaceAllStringFunc(p.text, func(m string) string {
		return values[strings.Trim(m, "{}")]
	}), nil
}

const chatTemplateText = `Responda as perguntas se baseando no contexto fornecido.
Warning: Você é um chatbot para a faculdade Ruy Barbosa de Salvador. Falar como um estudante de graduação.
Tentar sempre apresentar a resposta em tópicos ou listas para facilitar ao estudante seguir um passo-a-passo.

contexto: {contexto}

pergunta: {pergunta}`

const reformatTemplateText = `Reorganize a transcrição abaixo em Markdown, usando tópicos (bullet points).
Regras:
- Preserve todas as informações do texto original. Não omita nem invente conteúdo.
- Altere apenas a estrutura e a formatação.
- Mantenha o idioma original da transcrição.
- Responda somente com o Markdown resultante.

transcrição: {transcricao_bruta}`

var (
	ChatPrompt     = NewPromptTemplate(chatTemplateText)
	ReformatPrompt = NewPromptTemplate(reformatTemplateText)
)

// withLanguageHint asks the LLM to answer in the transcript's language.
func withLanguageHint(prompt, language string) string {
	if language == "" {
		return prompt
	}
	return prompt + fmt.Sprintf("\n\nIdioma da transcrição: %s", language)
}
