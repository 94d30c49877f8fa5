// Package graph reduces the derivation records of one search into a
// renderer-neutral node and edge graph.
package graph

import (
	"time"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

// Node is one (word, language) pair.
type Node struct {
	ID         string                  `json:"id"`
	Label      string                  `json:"label"`
	Language   string                  `json:"language"`
	Definition []domain.DefinitionSpec `json:"definition,omitempty"`
	IsSource   bool                    `json:"isSource,omitempty"`
	IsEtymon   bool                    `json:"isEtymon,omitempty"`
	IsPriority bool                    `json:"isPriority,omitempty"`
	IsImpure   bool                    `json:"isImpure,omitempty"`
	IsGroup    bool                    `json:"isGroup,omitempty"`
	// Parent is the id of the synthetic group node the node is laid out in.
	Parent string `json:"parent,omitempty"`
}

// Edge points from an etymon (Source) to the word derived from it (Target).
type Edge struct {
	ID           string              `json:"id"`
	Source       string              `json:"source"`
	Target       string              `json:"target"`
	Relationship domain.Relationship `json:"relationship"`
	Category     domain.EdgeStyle    `json:"category"`
	IsBackup     bool                `json:"isBackup,omitempty"`
	IsImpure     bool                `json:"isImpure,omitempty"`
}

// LanguageStyle is the display color pair of one language.
type LanguageStyle struct {
	Background string `json:"backgroundColor"`
	Color      string `json:"color"`
}

// Stats describes one reduction.
type Stats struct {
	DerivationsObtained int             `json:"derivationsObtained"`
	NodesObtained       int             `json:"nodesObtained"`
	DirectLength        int             `json:"directLength"`
	Clashes             int             `json:"clashes"`
	FalseRoots          int             `json:"falseRoots"`
	EdgesDrawn          int             `json:"edgesDrawn"`
	NodesDrawn          int             `json:"nodesDrawn"`
	TimingSegments      []time.Duration `json:"timingSegments"`
	ProcessingTime      time.Duration   `json:"processingTime"`
}

// Graph is the reduced record set.
type Graph struct {
	Nodes     []Node                   `json:"nodes"`
	Edges     []Edge                   `json:"edges"`
	Languages map[string]LanguageStyle `json:"languages"`
	Stats     Stats                    `json:"stats"`
}

// Options tune Reduce.
type Options struct {
	// KeepFalseRoots keeps nodes the strict reduction would drop and tags
	// them IsImpure instead.
	KeepFalseRoots bool
	// GroupSiblings adds a group node around the children of every etymon
	// with more than one child.
	GroupSiblings bool
}
