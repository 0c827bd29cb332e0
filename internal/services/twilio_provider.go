package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/maskline/backend/internal/config"
)

// TwilioProvider implements PhoneProvider against the Twilio REST API.
// All requests go through one http.Client with a bounded timeout; transport
// failures come back wrapped in ErrProviderTransport and are never retried here.
type TwilioProvider struct {
	cfg    *config.Config
	client *http.Client
}

func NewTwilioProvider(cfg *config.Config) *TwilioProvider {
	return &TwilioProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.TwilioHTTPTimeout},
	}
}

type twilioLookupResponse struct {
	CountryCode string `json:"country_code"`
	PhoneNumber string `json:"phone_number"`
	Carrier     struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"carrier"`
}

type twilioAvailableNumbersResponse struct {
	AvailablePhoneNumbers []struct {
		PhoneNumber string `json:"phone_number"`
	} `json:"available_phone_numbers"`
}

// LookupCarrier fetches country and carrier for a number via Lookup v1.
// Lookup returns 404 for numbers that do not exist anywhere.
func (p *TwilioProvider) LookupCarrier(ctx context.Context, number string) (*CarrierInfo, error) {
	endpoint := fmt.Sprintf("%s/PhoneNumbers/%s?Type=carrier", p.cfg.TwilioLookupURL, url.PathEscape(number))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(p.cfg.TwilioAccountSID, p.cfg.TwilioAuthToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderTransport, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("carrier lookup failed with status %d", resp.StatusCode)
	}

	var body twilioLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("carrier lookup: decode response: %w", err)
	}
	return &CarrierInfo{CountryCode: body.CountryCode, Carrier: body.Carrier.Name, LineType: body.Carrier.Type}, nil
}

// SendSMS posts to the Messages resource of the configured account.
func (p *TwilioProvider) SendSMS(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", p.cfg.TwilioAPIBaseURL, p.cfg.TwilioAccountSID)
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", p.cfg.TwilioMainNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.cfg.TwilioAccountSID, p.cfg.TwilioAuthToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderTransport, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms send failed with status %d", resp.StatusCode)
	}
	return nil
}

// SearchNumbersByAreaCode lists available local numbers for an area code.
func (p *TwilioProvider) SearchNumbersByAreaCode(ctx context.Context, country, areaCode string, limit int) ([]string, error) {
	query := url.Values{}
	query.Set("AreaCode", areaCode)
	query.Set("PageSize", strconv.Itoa(limit))
	return p.searchAvailable(ctx, country, query)
}

// SearchNumbersByLocality lists available local numbers for a city/region.
func (p *TwilioProvider) SearchNumbersByLocality(ctx context.Context, country, locality string, limit int) ([]string, error) {
	query := url.Values{}
	query.Set("InLocality", locality)
	query.Set("PageSize", strconv.Itoa(limit))
	return p.searchAvailable(ctx, country, query)
}

func (p *TwilioProvider) searchAvailable(ctx context.Context, country string, query url.Values) ([]string, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/AvailablePhoneNumbers/%s/Local.json?%s",
		p.cfg.TwilioAPIBaseURL, p.cfg.TwilioAccountSID, url.PathEscape(country), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(p.cfg.TwilioAccountSID, p.cfg.TwilioAuthToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderTransport, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("number search failed with status %d", resp.StatusCode)
	}

	var body twilioAvailableNumbersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("number search: decode response: %w", err)
	}
	numbers := make([]string, 0, len(body.AvailablePhoneNumbers))
	for _, n := range body.AvailablePhoneNumbers {
		numbers = append(numbers, n.PhoneNumber)
	}
	return numbers, nil
}

// ProvisionNumber claims a number into the account's incoming numbers.
func (p *TwilioProvider) ProvisionNumber(ctx context.Context, number string) error {
	endpoint := fmt.Sprintf("%s/Accounts/%s/IncomingPhoneNumbers.json", p.cfg.TwilioAPIBaseURL, p.cfg.TwilioAccountSID)
	form := url.Values{}
	form.Set("PhoneNumber", number)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.cfg.TwilioAccountSID, p.cfg.TwilioAuthToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderTransport, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("number provisioning failed with status %d", resp.StatusCode)
	}
	return nil
}
