package utils

import (
	"testing"

	"github.com/pemistahl/lingua-go"
	"github.com/stretchr/testify/assert"
)

func TestLinguaDetector(t *testing.T) {
	detector := NewLinguaDetector(lingua.English, lingua.Portuguese)

	assert.Equal(t, "Portuguese", detector.DetectLanguage("Olá, hoje vamos falar sobre a matrícula na faculdade e os documentos necessários."))
	assert.Equal(t, "English", detector.DetectLanguage("Today we are going to talk about enrollment and the required documents."))
	assert.Equal(t, "", detector.DetectLanguage("12345 !!!"))
}
