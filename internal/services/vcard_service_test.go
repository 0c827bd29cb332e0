package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveContactCardByLookupKey(t *testing.T) {
	db := newTestDB(t)
	svc := NewVCardService(db, newTestConfig())
	user := newTestUser(t, db)
	createRelayNumber(t, db, user.ID, "+19998887777", "abcdef0123456789abcdef0123456789")

	relay, card, err := svc.ResolveContactCard("abcdef0123456789abcdef0123456789")
	require.NoError(t, err)

	assert.Equal(t, "+19998887777", relay.Number)
	assert.True(t, strings.HasPrefix(card, "BEGIN:VCARD"))
	assert.Contains(t, card, "TEL;TYPE=CELL:+19998887777")
}

func TestResolveContactCardUnknownKey(t *testing.T) {
	db := newTestDB(t)
	svc := NewVCardService(db, newTestConfig())

	_, _, err := svc.ResolveContactCard("wrong-lookup-key")
	assert.ErrorIs(t, err, ErrLookupKeyNotFound)

	_, _, err = svc.ResolveContactCard("")
	assert.ErrorIs(t, err, ErrLookupKeyNotFound)
}

func TestGenerateContactQRPDF(t *testing.T) {
	db := newTestDB(t)
	svc := NewVCardService(db, newTestConfig())
	user := newTestUser(t, db)
	relay := createRelayNumber(t, db, user.ID, "+19998887777", "abcdef0123456789abcdef0123456789")

	pdf, err := svc.GenerateContactQRPDF(relay)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
}
