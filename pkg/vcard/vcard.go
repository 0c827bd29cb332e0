package vcard

import (
	"fmt"
	"strings"
)

// Card describes a minimal phone contact card.
type Card struct {
	FullName string
	Number   string
	Org      string
}

// Encode renders the card as a vCard 3.0 document with CRLF line endings.
func Encode(card Card) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCARD\r\n")
	b.WriteString("VERSION:3.0\r\n")
	fmt.Fprintf(&b, "FN:%s\r\n", escape(card.FullName))
	fmt.Fprintf(&b, "N:;%s;;;\r\n", escape(card.FullName))
	if card.Org != "" {
		fmt.Fprintf(&b, "ORG:%s\r\n", escape(card.Org))
	}
	fmt.Fprintf(&b, "TEL;TYPE=CELL:%s\r\n", card.Number)
	b.WriteString("END:VCARD\r\n")
	return b.String()
}

func escape(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "\n", "\\n", ",", "\\,", ";", "\\;")
	return r.Replace(s)
}
