package domain

// Relationship labels a derivation edge. Etymology relationships read
// "parent <relationship> origin"; descendant relationships describe how a
// descendant was obtained from its source.
type Relationship string

const (
	RelationshipUltimately    Relationship = "ultimately from"
	RelationshipInherited     Relationship = "inherited from"
	RelationshipClipping      Relationship = "clipping of"
	RelationshipBorrowed      Relationship = "borrowed from"
	RelationshipVariant       Relationship = "variant of"
	RelationshipBorrowingOf   Relationship = "borrowing of"
	RelationshipBorrowingFrom Relationship = "borrowing from"
	RelationshipFormOf        Relationship = "form of"
	RelationshipFrom          Relationship = "from"
	RelationshipVia           Relationship = "via"
	RelationshipRoot          Relationship = "root"
	RelationshipOf            Relationship = "of"
	RelationshipAsIf          Relationship = "as if"
	RelationshipInflection    Relationship = "inflection of"
	RelationshipCompound      Relationship = "compound of"
	RelationshipCalque        Relationship = "calque of"
)

const (
	DescendantBorrowed             Relationship = "borrowed"
	DescendantLearnedBorrowing     Relationship = "learned borrowing"
	DescendantSemiLearnedBorrowing Relationship = "semi-learned borrowing"
	DescendantCalque               Relationship = "calque"
	DescendantPartialCalque        Relationship = "partial calque"
	DescendantSemanticLoan         Relationship = "semantic loan"
	DescendantTransliteration      Relationship = "transliteration"
	DescendantDerivative           Relationship = "reshaped by analogy or addition of morphemes"
	DescendantInherited            Relationship = "inherited"
)

// DerivationRelationships is the ordered list of relationship phrases the
// claim parser recognises in etymology prose. Order matters: earlier entries
// win when several phrases could match at the same position.
var DerivationRelationships = []Relationship{
	RelationshipUltimately,
	RelationshipInherited,
	RelationshipClipping,
	RelationshipBorrowed,
	RelationshipVariant,
	RelationshipBorrowingOf,
	RelationshipBorrowingFrom,
	RelationshipFormOf,
	RelationshipFrom,
	RelationshipVia,
	RelationshipRoot,
	RelationshipOf,
	RelationshipAsIf,
	RelationshipInflection,
	RelationshipCompound,
	RelationshipCalque,
}

func (r Relationship) String() string { return string(r) }

// IsDescendant reports whether r is a descendant-list relationship.
func (r Relationship) IsDescendant() bool {
	switch r {
	case DescendantBorrowed, DescendantLearnedBorrowing, DescendantSemiLearnedBorrowing,
		DescendantCalque, DescendantPartialCalque, DescendantSemanticLoan,
		DescendantTransliteration, DescendantDerivative, DescendantInherited:
		return true
	}
	return false
}

// EdgeStyle is the line style a renderer should use for a relationship.
type EdgeStyle string

const (
	EdgeStyleSolid  EdgeStyle = "solid"
	EdgeStyleDashed EdgeStyle = "dashed"
	EdgeStyleDouble EdgeStyle = "double"
	EdgeStyleDotted EdgeStyle = "dotted"
)

// Style returns the edge style category of r. Unknown relationships are solid.
func (r Relationship) Style() EdgeStyle {
	switch r {
	case DescendantLearnedBorrowing, DescendantSemiLearnedBorrowing, DescendantPartialCalque,
		DescendantTransliteration, DescendantSemanticLoan, DescendantCalque,
		RelationshipCalque, RelationshipAsIf:
		return EdgeStyleDashed
	case DescendantDerivative, RelationshipFormOf, RelationshipInflection,
		RelationshipCompound, RelationshipVariant, RelationshipClipping:
		return EdgeStyleDouble
	case RelationshipVia, RelationshipUltimately:
		return EdgeStyleDotted
	}
	return EdgeStyleSolid
}

// descendantTags maps Wiktionary {{desc}} flag arguments to relationships.
var descendantTags = map[string]Relationship{
	"bor":      DescendantBorrowed,
	"lbor":     DescendantLearnedBorrowing,
	"slb":      DescendantSemiLearnedBorrowing,
	"clq":      DescendantCalque,
	"pclq":     DescendantPartialCalque,
	"sml":      DescendantSemanticLoan,
	"translit": DescendantTransliteration,
	"der":      DescendantDerivative,
}

// DescendantTag looks up the relationship for a {{desc}} flag such as "bor".
func DescendantTag(tag string) (Relationship, bool) {
	r, ok := descendantTags[tag]
	return r, ok
}
