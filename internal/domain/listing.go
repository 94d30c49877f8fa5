package domain

// SegmentKind distinguishes plain prose from hyperlinked text.
type SegmentKind string

const (
	SegmentString SegmentKind = "string"
	SegmentLink   SegmentKind = "link"
)

// Segment is one run of etymology prose. Link segments carry an absolute
// target URL; string segments may carry a parenthetical gloss lifted out of
// their text.
type Segment struct {
	Kind           SegmentKind `json:"type"`
	Text           string      `json:"text"`
	Link           string      `json:"linkTo,omitempty"`
	ContainedGloss string      `json:"containedGloss,omitempty"`
}

func (s Segment) IsLink() bool { return s.Kind == SegmentLink }

// DefinitionSpec is one sense's gloss line.
type DefinitionSpec struct {
	Text         string `json:"text"`
	IsInflection bool   `json:"isInflection"`
	InflectionOf string `json:"inflectionOf,omitempty"`
}

// WordListing is a single sense of a word in one language.
type WordListing struct {
	Word               string           `json:"word"`
	Language           string           `json:"language"`
	Definitions        []DefinitionSpec `json:"definition,omitempty"`
	PartOfSpeech       PartOfSpeech     `json:"partOfSpeech,omitempty"`
	EtymologySection   string           `json:"etymologySectionHead,omitempty"`
	DescendantSections []string         `json:"descendantsSectionHeads,omitempty"`
	Etymology          *EtymologyClaim  `json:"etymology,omitempty"`
}

// FirstDefinition returns the text of the first definition, or "".
func (l *WordListing) FirstDefinition() string {
	if l == nil || len(l.Definitions) == 0 {
		return ""
	}
	return l.Definitions[0].Text
}

// InflectionDefinition returns the first definition flagged as an inflection.
func (l *WordListing) InflectionDefinition() (DefinitionSpec, bool) {
	for _, d := range l.Definitions {
		if d.IsInflection {
			return d, true
		}
	}
	return DefinitionSpec{}, false
}

// WordData groups every listing found for a word.
type WordData struct {
	Word     string        `json:"word"`
	Listings []WordListing `json:"listings"`
}

// EtymologyClaim states that Word in Language derives via Relationship from
// From. Root claims have no From.
type EtymologyClaim struct {
	Word         string          `json:"word"`
	Language     string          `json:"language"`
	Relationship Relationship    `json:"relationship,omitempty"`
	From         *EtymologyClaim `json:"fromEtymologyListing,omitempty"`
	StatedGloss  string          `json:"statedGloss,omitempty"`
	Raw          []Segment       `json:"rawResult,omitempty"`
}
