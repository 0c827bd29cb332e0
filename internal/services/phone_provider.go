package services

import "context"

// CarrierInfo is the result of a carrier lookup for a number.
type CarrierInfo struct {
	CountryCode string
	Carrier     string
	LineType    string // "mobile", "landline" or "voip"
}

// PhoneProvider defines the interface to the telephony provider (Twilio).
// Test doubles implement the same interface; the core never touches a
// provider client directly.
type PhoneProvider interface {
	// LookupCarrier confirms a number exists and returns its country and carrier
	LookupCarrier(ctx context.Context, number string) (*CarrierInfo, error)

	// SendSMS delivers a text message to an E.164 number
	SendSMS(ctx context.Context, to, body string) error

	// SearchNumbersByAreaCode lists available numbers in an area code
	SearchNumbersByAreaCode(ctx context.Context, country, areaCode string, limit int) ([]string, error)

	// SearchNumbersByLocality lists available numbers in a city/region
	SearchNumbersByLocality(ctx context.Context, country, locality string, limit int) ([]string, error)

	// ProvisionNumber buys/claims a number from the provider's inventory
	ProvisionNumber(ctx context.Context, number string) error
}
