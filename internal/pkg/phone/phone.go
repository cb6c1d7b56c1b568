// Package phone canonicalizes phone numbers to E.164.
package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used for numbers written in national format.
const DefaultRegion = "NG"

// ErrInvalidNumber is returned for input that cannot be parsed as a phone number.
var ErrInvalidNumber = errors.New("invalid phone number")

// Normalizer converts phone numbers to their canonical international form.
type Normalizer struct {
	region string
}

// NewNormalizer returns a Normalizer that resolves national numbers against
// region (ISO 3166-1 alpha-2). An empty region means DefaultRegion.
func NewNormalizer(region string) *Normalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = DefaultRegion
	}
	return &Normalizer{region: region}
}

// Normalize returns raw in E.164 format, e.g. "08012345678" -> "+2348012345678".
func (n *Normalizer) Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidNumber
	}

	// "00" international prefix is not understood by every region's metadata.
	if strings.HasPrefix(raw, "00") {
		raw = "+" + raw[2:]
	}

	num, err := phonenumbers.Parse(raw, n.region)
	if err != nil {
		return "", ErrInvalidNumber
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return "", ErrInvalidNumber
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// Region returns the default region.
func (n *Normalizer) Region() string {
	return n.region
}
