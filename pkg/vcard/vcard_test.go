package vcard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	card := Encode(Card{FullName: "+19998887777", Number: "+19998887777", Org: "Maskline Relay"})

	assert.True(t, strings.HasPrefix(card, "BEGIN:VCARD\r\n"))
	assert.True(t, strings.HasSuffix(card, "END:VCARD\r\n"))
	assert.Contains(t, card, "VERSION:3.0\r\n")
	assert.Contains(t, card, "FN:+19998887777\r\n")
	assert.Contains(t, card, "ORG:Maskline Relay\r\n")
	assert.Contains(t, card, "TEL;TYPE=CELL:+19998887777\r\n")
}

func TestEncodeEscapesSpecialCharacters(t *testing.T) {
	card := Encode(Card{FullName: "a;b,c", Number: "+19998887777"})
	assert.Contains(t, card, "FN:a\\;b\\,c")
	assert.NotContains(t, card, "ORG:")
}
