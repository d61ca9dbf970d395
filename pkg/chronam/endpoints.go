package chronam

import (
	"fmt"
	"strings"

	"github.com/andrew-pyle/chronam/pkg/errors"
)

const (
	// BaseURL is the base URL for the Chronicling America archive
	BaseURL = "https://chroniclingamerica.loc.gov"

	// lccnPathMarker must appear in any newspaper locator we accept
	lccnPathMarker = "chroniclingamerica.loc.gov/lccn/"
)

// NewspaperURL constructs the JSON resource URL for a newspaper title
func NewspaperURL(lccn string) string {
	return fmt.Sprintf("%s/lccn/%s.json", BaseURL, strings.TrimSpace(lccn))
}

// ValidateURL is a superficial shape check: the locator must reference a
// chroniclingamerica.loc.gov LCCN resource in its .json representation.
// It makes no attempt to verify the resource exists.
func ValidateURL(url string) error {
	if !strings.Contains(url, lccnPathMarker) {
		return errors.NewInvalidLocator(url, "locator must reference a chroniclingamerica.loc.gov/lccn resource")
	}
	if !strings.Contains(url, ".json") {
		return errors.NewInvalidLocator(url, "locator must reference the .json representation")
	}
	return nil
}

// NormalizeLocator accepts either a bare LCCN (e.g. "sn85038615") or a full
// newspaper URL and returns a validated newspaper resource URL.
func NormalizeLocator(locator string) (string, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return "", errors.NewInvalidLocator(locator, "empty locator")
	}

	url := locator
	if !strings.Contains(locator, "/") {
		url = NewspaperURL(locator)
	}

	if err := ValidateURL(url); err != nil {
		return "", err
	}
	return url, nil
}
