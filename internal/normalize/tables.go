package normalize

// Tables holds the immutable lookup data the Normalizer is constructed
// with: country names, jurisdiction codes, and the per-entity status and
// priority vocabularies. Injecting them keeps normalization free of
// package-level mutable state.
type Tables struct {
	// Countries maps country spellings to ISO-3166 alpha-2 codes.
	Countries map[string]string

	// Jurisdictions maps IP-office jurisdiction spellings to their codes.
	// Unlike Countries this includes non-country offices such as EP.
	Jurisdictions map[string]string

	// Status maps entity type -> ordered canonical vocabularies.
	Status map[string][]Vocabulary

	// Priority is the ordered canonical priority vocabulary.
	Priority []Vocabulary
}

// Vocabulary maps one canonical value to the raw variants that normalize
// to it. Vocabularies are matched in slice order, so when a raw value
// matches variants of more than one canonical, the earliest declared
// canonical wins. The declaration order below is the legacy mapping
// precedence.
type Vocabulary struct {
	Canonical string
	Variants  []string
}

// DefaultTables returns the canonical lookup tables for IPMS extracts.
func DefaultTables() *Tables {
	return &Tables{
		Countries: map[string]string{
			"United States": "US", "USA": "US", "US": "US", "United States of America": "US",
			"Canada": "CA", "CA": "CA",
			"United Kingdom": "GB", "UK": "GB", "GB": "GB", "Great Britain": "GB",
			"Germany": "DE", "DE": "DE", "Deutschland": "DE", "Federal Republic of Germany": "DE",
			"France": "FR", "FR": "FR", "République française": "FR",
			"Japan": "JP", "JP": "JP", "Nippon": "JP", "Nihon": "JP",
			"China": "CN", "CN": "CN", "People's Republic of China": "CN", "PRC": "CN",
			"India": "IN", "IN": "IN", "Republic of India": "IN",
			"Australia": "AU", "AU": "AU", "Commonwealth of Australia": "AU",
			"Brazil": "BR", "BR": "BR", "Brasil": "BR", "Federative Republic of Brazil": "BR",
			"Italy": "IT", "IT": "IT", "Italia": "IT",
			"Spain": "ES", "ES": "ES", "España": "ES",
			"Netherlands": "NL", "NL": "NL", "Holland": "NL",
			"Switzerland": "CH", "CH": "CH", "Schweiz": "CH", "Suisse": "CH",
			"Sweden": "SE", "SE": "SE", "Sverige": "SE",
			"South Korea": "KR", "KR": "KR", "Korea": "KR", "Republic of Korea": "KR",
		},
		Jurisdictions: map[string]string{
			"US": "US", "USA": "US", "United States": "US",
			"EP": "EP", "Europe": "EP", "EU": "EP",
			"GB": "GB", "UK": "GB",
			"DE": "DE", "JP": "JP", "CN": "CN",
		},
		Status: map[string][]Vocabulary{
			"patent": {
				{"pending", []string{"pending", "filed", "under examination", "prosecution", "in prosecution"}},
				{"granted", []string{"granted", "issued", "patented", "allowed"}},
				{"abandoned", []string{"abandoned", "withdrawn", "dismissed"}},
				{"rejected", []string{"rejected", "refused", "denied"}},
				{"expired", []string{"expired", "lapsed", "terminated"}},
			},
			"trademark": {
				{"pending", []string{"pending", "filed", "under examination", "published", "application"}},
				{"registered", []string{"registered", "registration", "issued", "granted"}},
				{"opposed", []string{"opposed", "opposition", "contested"}},
				{"cancelled", []string{"cancelled", "canceled", "revoked"}},
				{"abandoned", []string{"abandoned", "withdrawn", "dismissed"}},
				{"expired", []string{"expired", "lapsed", "terminated"}},
			},
			"copyright": {
				{"pending", []string{"pending", "filed", "under examination", "application"}},
				{"registered", []string{"registered", "registration", "issued", "granted"}},
				{"rejected", []string{"rejected", "refused", "denied"}},
				{"abandoned", []string{"abandoned", "withdrawn", "dismissed"}},
			},
			"deadline": {
				{"pending", []string{"pending", "open", "upcoming"}},
				{"completed", []string{"completed", "done", "closed"}},
				{"overdue", []string{"overdue", "late", "past due"}},
				{"cancelled", []string{"cancelled", "canceled", "void"}},
			},
		},
		Priority: []Vocabulary{
			{"low", []string{"low", "minor", "routine"}},
			{"medium", []string{"medium", "normal", "standard", "moderate"}},
			{"high", []string{"high", "important", "urgent"}},
			{"critical", []string{"critical", "emergency", "immediate", "asap"}},
		},
	}
}
