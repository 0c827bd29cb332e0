package services

import "errors"

// Failure kinds surfaced by the phone services. Handlers map these onto HTTP
// statuses with errors.Is; the short messages are the only detail exposed.
var (
	ErrInvalidNumberFormat      = errors.New("number must be in E.164 format, e.g. +12223334444")
	ErrCarrierLookupFailed      = errors.New("could not verify that this number exists")
	ErrMessageDeliveryFailed    = errors.New("could not send the verification message")
	ErrNoPendingVerification    = errors.New("no verification is pending for this number")
	ErrCodeExpired              = errors.New("verification code has expired, request a new one")
	ErrCodeMismatch             = errors.New("verification code does not match")
	ErrTooManyAttempts          = errors.New("too many failed attempts, request a new code")
	ErrNoVerifiedRealPhone      = errors.New("a verified real phone number is required")
	ErrRelayNumberAlreadyExists = errors.New("account already has a relay number")
	ErrAmbiguousOrMissingFilter = errors.New("specify exactly one of location or area_code")
	ErrLookupKeyNotFound        = errors.New("no contact card for this key")
	ErrProviderTransport        = errors.New("phone provider is unreachable")
	ErrNumberProvisioningFailed = errors.New("could not provision the selected number")
)
