package phones

import (
	"errors"
	"regexp"
	"strings"
)

// E.164: leading +, country code digit 1-9, up to 14 further digits.
var e164Regex = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

var ErrNotNANP = errors.New("number is not a +1 NANP number")

// IsE164 reports whether number is a well-formed E.164 string.
func IsE164(number string) bool {
	return e164Regex.MatchString(strings.TrimSpace(number))
}

// NationalNumber returns the national significant number of a +1 (NANP)
// E.164 string, i.e. the ten digits after the country code.
func NationalNumber(number string) (string, error) {
	number = strings.TrimSpace(number)
	if !e164Regex.MatchString(number) || !strings.HasPrefix(number, "+1") {
		return "", ErrNotNANP
	}
	nsn := number[2:]
	if len(nsn) != 10 {
		return "", ErrNotNANP
	}
	return nsn, nil
}

// AreaCode returns the three-digit area code of a +1 number.
func AreaCode(number string) (string, error) {
	nsn, err := NationalNumber(number)
	if err != nil {
		return "", err
	}
	return nsn[0:3], nil
}

// Prefix returns the three-digit exchange prefix of a +1 number.
func Prefix(number string) (string, error) {
	nsn, err := NationalNumber(number)
	if err != nil {
		return "", err
	}
	return nsn[3:6], nil
}
