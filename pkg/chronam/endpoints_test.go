package chronam

import (
	"testing"

	"github.com/andrew-pyle/chronam/pkg/errors"
)

func TestNewspaperURL(t *testing.T) {
	got := NewspaperURL("sn84026994")
	want := "https://chroniclingamerica.loc.gov/lccn/sn84026994.json"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://chroniclingamerica.loc.gov/lccn/sn84026994.json",
		"http://chroniclingamerica.loc.gov/lccn/sn84026994/1900-01-01/ed-1.json",
	}
	for _, url := range valid {
		if err := ValidateURL(url); err != nil {
			t.Errorf("Expected %q to validate, got %v", url, err)
		}
	}

	invalid := []string{
		"https://example.com/lccn/sn84026994.json",
		"https://chroniclingamerica.loc.gov/lccn/sn84026994",
		"https://chroniclingamerica.loc.gov/about/",
		"",
	}
	for _, url := range invalid {
		err := ValidateURL(url)
		if err == nil {
			t.Errorf("Expected %q to fail validation", url)
			continue
		}
		if !errors.IsType(err, errors.ErrorTypeInvalidLocator) {
			t.Errorf("Expected invalid locator error for %q, got %v", url, err)
		}
	}
}

func TestNormalizeLocator(t *testing.T) {
	// A bare LCCN expands to the newspaper resource URL
	got, err := NormalizeLocator("sn84026994")
	if err != nil {
		t.Fatalf("NormalizeLocator failed: %v", err)
	}
	if got != "https://chroniclingamerica.loc.gov/lccn/sn84026994.json" {
		t.Errorf("Unexpected URL %q", got)
	}

	// A full URL passes through validation unchanged
	full := "https://chroniclingamerica.loc.gov/lccn/sn84026994.json"
	got, err = NormalizeLocator(full)
	if err != nil {
		t.Fatalf("NormalizeLocator failed: %v", err)
	}
	if got != full {
		t.Errorf("Expected %q, got %q", full, got)
	}

	// Wrong-domain URLs are rejected
	if _, err := NormalizeLocator("https://example.com/lccn/sn84026994.json"); err == nil {
		t.Error("Expected wrong-domain locator to be rejected")
	}

	if _, err := NormalizeLocator("  "); err == nil {
		t.Error("Expected empty locator to be rejected")
	}
}
