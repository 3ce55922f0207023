package normalize

import "testing"

func TestParseJSONFieldStrict(t *testing.T) {
	fields, confident := ParseJSONField(`{"country": "US", "number": "123456", "year": 2020}`)
	if !confident {
		t.Error("confident = false for strict JSON, want true")
	}
	if fields["country"] != "US" || fields["number"] != "123456" {
		t.Errorf("fields = %v", fields)
	}
	if fields["year"] != "2020" {
		t.Errorf("numeric value = %q, want 2020", fields["year"])
	}
}

func TestParseJSONFieldFallback(t *testing.T) {
	// Trailing comma breaks strict parsing; the scrape still recovers pairs.
	fields, confident := ParseJSONField(`{country: "US", number: 123456,}`)
	if confident {
		t.Error("confident = true for malformed JSON, want false")
	}
	if fields["country"] != "US" {
		t.Errorf("country = %q, want US", fields["country"])
	}
	if fields["number"] != "123456" {
		t.Errorf("number = %q, want 123456", fields["number"])
	}
}

func TestParseJSONFieldEmpty(t *testing.T) {
	fields, confident := ParseJSONField("")
	if confident {
		t.Error("confident = true for empty input, want false")
	}
	if len(fields) != 0 {
		t.Errorf("fields = %v, want empty", fields)
	}
}
