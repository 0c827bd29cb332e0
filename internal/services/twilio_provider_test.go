package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/maskline/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTwilioTestConfig(serverURL string) *config.Config {
	cfg := newTestConfig()
	cfg.TwilioAccountSID = "AC_test"
	cfg.TwilioAuthToken = "secret"
	cfg.TwilioMainNumber = "+15005550006"
	cfg.TwilioAPIBaseURL = serverURL
	cfg.TwilioLookupURL = serverURL
	cfg.TwilioHTTPTimeout = 5 * time.Second
	return cfg
}

func TestTwilioLookupCarrier(t *testing.T) {
	var gotPath, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.URL.Query().Get("Type")
		user, pass, _ := r.BasicAuth()
		assert.Equal(t, "AC_test", user)
		assert.Equal(t, "secret", pass)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"country_code":"US","phone_number":"+12223334444","carrier":{"name":"verizon","type":"mobile"}}`))
	}))
	defer server.Close()

	provider := NewTwilioProvider(newTwilioTestConfig(server.URL))
	info, err := provider.LookupCarrier(context.Background(), "+12223334444")
	require.NoError(t, err)

	assert.Equal(t, "/PhoneNumbers/+12223334444", gotPath)
	assert.Equal(t, "carrier", gotType)
	assert.Equal(t, "US", info.CountryCode)
	assert.Equal(t, "verizon", info.Carrier)
	assert.Equal(t, "mobile", info.LineType)
}

func TestTwilioLookupCarrierNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider := NewTwilioProvider(newTwilioTestConfig(server.URL))
	_, err := provider.LookupCarrier(context.Background(), "+10000000000")
	assert.Error(t, err)
}

func TestTwilioSendSMS(t *testing.T) {
	var gotPath, gotTo, gotFrom, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotTo = r.PostFormValue("To")
		gotFrom = r.PostFormValue("From")
		gotBody = r.PostFormValue("Body")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	provider := NewTwilioProvider(newTwilioTestConfig(server.URL))
	err := provider.SendSMS(context.Background(), "+12223334444", "Your verification code is 123456.")
	require.NoError(t, err)

	assert.Equal(t, "/Accounts/AC_test/Messages.json", gotPath)
	assert.Equal(t, "+12223334444", gotTo)
	assert.Equal(t, "+15005550006", gotFrom)
	assert.Contains(t, gotBody, "verification code")
}

func TestTwilioSearchByAreaCode(t *testing.T) {
	var gotPath, gotAreaCode, gotPageSize string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAreaCode = r.URL.Query().Get("AreaCode")
		gotPageSize = r.URL.Query().Get("PageSize")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"available_phone_numbers":[{"phone_number":"+19185550001"},{"phone_number":"+19185550002"}]}`))
	}))
	defer server.Close()

	provider := NewTwilioProvider(newTwilioTestConfig(server.URL))
	numbers, err := provider.SearchNumbersByAreaCode(context.Background(), "US", "918", 10)
	require.NoError(t, err)

	assert.Equal(t, "/Accounts/AC_test/AvailablePhoneNumbers/US/Local.json", gotPath)
	assert.Equal(t, "918", gotAreaCode)
	assert.Equal(t, "10", gotPageSize)
	assert.Equal(t, []string{"+19185550001", "+19185550002"}, numbers)
}

func TestTwilioSearchByLocality(t *testing.T) {
	var gotLocality, gotPageSize string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLocality = r.URL.Query().Get("InLocality")
		gotPageSize = r.URL.Query().Get("PageSize")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"available_phone_numbers":[]}`))
	}))
	defer server.Close()

	provider := NewTwilioProvider(newTwilioTestConfig(server.URL))
	numbers, err := provider.SearchNumbersByLocality(context.Background(), "US", "Miami, FL", 10)
	require.NoError(t, err)

	assert.Equal(t, "Miami, FL", gotLocality)
	assert.Equal(t, "10", gotPageSize)
	assert.Empty(t, numbers)
}

func TestTwilioTransportErrorIsWrapped(t *testing.T) {
	cfg := newTwilioTestConfig("http://127.0.0.1:1")
	cfg.TwilioHTTPTimeout = 500 * time.Millisecond
	provider := NewTwilioProvider(cfg)

	_, err := provider.LookupCarrier(context.Background(), "+12223334444")
	assert.ErrorIs(t, err, ErrProviderTransport)

	err = provider.SendSMS(context.Background(), "+12223334444", "hi")
	assert.ErrorIs(t, err, ErrProviderTransport)
}

func TestTwilioProvisionNumber(t *testing.T) {
	var gotPath, gotNumber string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotNumber = r.PostFormValue("PhoneNumber")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	provider := NewTwilioProvider(newTwilioTestConfig(server.URL))
	err := provider.ProvisionNumber(context.Background(), "+19998887777")
	require.NoError(t, err)

	assert.Equal(t, "/Accounts/AC_test/IncomingPhoneNumbers.json", gotPath)
	assert.Equal(t, "+19998887777", gotNumber)
}
