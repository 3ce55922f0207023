// Package normalize provides pure, total field normalizers for legacy IP
// record extracts.
//
// Every function accepts arbitrary legacy input and never fails: values
// that cannot be coerced become the canonical empty value, optionally
// recording a Warning in a caller-owned collector. Lookup-driven
// normalizers live on Normalizer, constructed with immutable Tables;
// everything else is a package function.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// sentinelValues are legacy placeholder strings that mean "no value".
var sentinelValues = map[string]bool{
	"n/a": true, "na": true, "null": true, "none": true,
	"unknown": true, "tbd": true, "pending": true,
}

// badPhones are placeholder phone numbers that mean "no value".
var badPhones = map[string]bool{
	"000-000-0000": true, "0000000000": true,
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonDigits     = regexp.MustCompile(`\D`)
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Normalizer holds the injected lookup tables for table-driven
// normalization (countries, jurisdictions, status/priority vocabularies).
type Normalizer struct {
	tables *Tables
}

// New creates a Normalizer. A nil tables uses DefaultTables.
func New(tables *Tables) *Normalizer {
	if tables == nil {
		tables = DefaultTables()
	}
	return &Normalizer{tables: tables}
}

// CleanString trims the value, collapses internal whitespace runs to one
// space, and maps legacy placeholder values to the empty string.
func CleanString(v string) string {
	cleaned := whitespaceRun.ReplaceAllString(strings.TrimSpace(v), " ")
	if sentinelValues[strings.ToLower(cleaned)] {
		return ""
	}
	return cleaned
}

// Name is a split personal name.
type Name struct {
	First string
	Last  string
}

// SplitName splits a free-text name into first/last components.
//
// Values containing a comma follow the "Last, First" legacy convention and
// split on the first comma. Otherwise the value splits on whitespace:
// one token is a bare last name, two tokens are first+last, and with more
// tokens the first token is the first name and the remainder joins into
// the last name. Both parts are title-cased.
func SplitName(v string) Name {
	cleaned := CleanString(v)
	if cleaned == "" {
		return Name{}
	}

	if i := strings.Index(cleaned, ","); i >= 0 {
		return Name{
			First: titleCase(strings.TrimSpace(cleaned[i+1:])),
			Last:  titleCase(strings.TrimSpace(cleaned[:i])),
		}
	}

	parts := strings.Fields(cleaned)
	switch len(parts) {
	case 1:
		return Name{Last: titleCase(parts[0])}
	case 2:
		return Name{First: titleCase(parts[0]), Last: titleCase(parts[1])}
	default:
		return Name{
			First: titleCase(parts[0]),
			Last:  titleCase(strings.Join(parts[1:], " ")),
		}
	}
}

// Full returns the legacy-compatible joined form "First Last".
func (n Name) Full() string {
	if n.First != "" && n.Last != "" {
		return n.First + " " + n.Last
	}
	if n.Last != "" {
		return n.Last
	}
	return n.First
}

// ParseInventors splits an inventor list on ";" or "|" into names.
// Empty segments are dropped.
func ParseInventors(v string) []Name {
	cleaned := CleanString(v)
	if cleaned == "" {
		return nil
	}

	var names []Name
	for _, part := range strings.FieldsFunc(cleaned, func(r rune) bool {
		return r == ';' || r == '|'
	}) {
		name := SplitName(part)
		if name.First != "" || name.Last != "" {
			names = append(names, name)
		}
	}
	return names
}

// NormalizePhone strips a phone value to digits and reformats it.
// Ten digits become "(AAA) EEE-NNNN", eleven digits with a leading 1
// become "+1 (AAA) EEE-NNNN", any other run of ten or more digits becomes
// "+<digits>". Shorter values return the cleaned original unmodified.
func NormalizePhone(v string) string {
	cleaned := CleanString(v)
	if cleaned == "" || badPhones[strings.ToLower(cleaned)] {
		return ""
	}

	digits := nonDigits.ReplaceAllString(cleaned, "")
	switch {
	case len(digits) == 10:
		return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
	case len(digits) == 11 && digits[0] == '1':
		return "+1 (" + digits[1:4] + ") " + digits[4:7] + "-" + digits[7:]
	case len(digits) >= 10:
		return "+" + digits
	}
	return cleaned
}

// NormalizeEmail lower-cases and validates an email address. A value
// containing the legacy "_at_" marker is repaired and revalidated.
// Invalid addresses return "" and record a warning.
func NormalizeEmail(v string, w *Warnings) string {
	cleaned := strings.ToLower(CleanString(v))
	if cleaned == "" {
		return ""
	}

	if emailPattern.MatchString(cleaned) {
		return cleaned
	}

	if strings.Contains(cleaned, "_at_") {
		repaired := strings.Replace(cleaned, "_at_", "@", 1)
		if emailPattern.MatchString(repaired) {
			return repaired
		}
	}

	w.Add(v, "invalid email format")
	return ""
}

// CountryToISO2 converts a country spelling to its ISO-3166 alpha-2 code.
// Lookup order: exact, case-insensitive, then substring heuristics for the
// most common aliases. Unresolved values return "" and record a warning.
func (n *Normalizer) CountryToISO2(v string, w *Warnings) string {
	cleaned := CleanString(v)
	if cleaned == "" {
		return ""
	}

	if code, ok := n.tables.Countries[cleaned]; ok {
		return code
	}
	for name, code := range n.tables.Countries {
		if strings.EqualFold(name, cleaned) {
			return code
		}
	}

	lower := strings.ToLower(cleaned)
	switch {
	case strings.Contains(lower, "united states"), strings.Contains(lower, "america"):
		return "US"
	case strings.Contains(lower, "united kingdom"), strings.Contains(lower, "britain"):
		return "GB"
	case strings.Contains(lower, "germany"), strings.Contains(lower, "deutschland"):
		return "DE"
	}

	w.Add(v, "unknown country")
	return ""
}

// Jurisdiction converts an IP-office jurisdiction spelling to its code.
// Non-country offices (EP) resolve through the jurisdiction table;
// everything else falls back to the country lookup.
func (n *Normalizer) Jurisdiction(v string, w *Warnings) string {
	cleaned := CleanString(v)
	if cleaned == "" {
		return ""
	}

	if code, ok := n.tables.Jurisdictions[cleaned]; ok {
		return code
	}
	for name, code := range n.tables.Jurisdictions {
		if strings.EqualFold(name, cleaned) {
			return code
		}
	}
	return n.CountryToISO2(v, w)
}

// NormalizeStatus maps a raw status to the entity type's canonical
// vocabulary. Exact variant match wins, then substring match in either
// direction; both passes walk the vocabulary in declared order, so a
// value matching several canonicals always resolves the same way.
// Unmatched values default to "pending" and record a warning.
func (n *Normalizer) NormalizeStatus(v, entityType string, w *Warnings) string {
	const defaultStatus = "pending"

	cleaned := strings.ToLower(CleanString(v))
	if cleaned == "" {
		return defaultStatus
	}

	vocab := n.statusVocab(entityType)
	if canonical, ok := matchVocabulary(vocab, cleaned); ok {
		return canonical
	}

	w.Add(v, "unknown "+entityType+" status")
	return defaultStatus
}

// NormalizePriority maps a raw priority to the canonical vocabulary.
// Unmatched values default to "medium" and record a warning.
func (n *Normalizer) NormalizePriority(v string, w *Warnings) string {
	const defaultPriority = "medium"

	cleaned := strings.ToLower(CleanString(v))
	if cleaned == "" {
		return defaultPriority
	}

	if canonical, ok := matchVocabulary(n.tables.Priority, cleaned); ok {
		return canonical
	}

	w.Add(v, "unknown priority")
	return defaultPriority
}

// matchVocabulary resolves a cleaned lowercase value against an ordered
// vocabulary: one exact pass, then one bidirectional substring pass.
// Slice order breaks ties between canonicals.
func matchVocabulary(vocab []Vocabulary, cleaned string) (string, bool) {
	for _, v := range vocab {
		for _, variant := range v.Variants {
			if cleaned == strings.ToLower(variant) {
				return v.Canonical, true
			}
		}
	}
	for _, v := range vocab {
		for _, variant := range v.Variants {
			lv := strings.ToLower(variant)
			if strings.Contains(cleaned, lv) || strings.Contains(lv, cleaned) {
				return v.Canonical, true
			}
		}
	}
	return "", false
}

// statusVocab resolves the vocabulary for an entity type, accepting both
// singular and plural spellings ("patent" and "patents").
func (n *Normalizer) statusVocab(entityType string) []Vocabulary {
	if vocab, ok := n.tables.Status[entityType]; ok {
		return vocab
	}
	return n.tables.Status[strings.TrimSuffix(entityType, "s")]
}

// titleCase title-cases a string the way legacy reports expect
// ("mcdonald" -> "Mcdonald", matching the source system's casing rules).
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
