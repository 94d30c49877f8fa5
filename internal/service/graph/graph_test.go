package graph

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gezakerecsenyi/etymologez/internal/domain"
)

func rec(parent, parentLang, origin, originLang string, rel domain.Relationship) domain.DerivationRecord {
	return domain.DerivationRecord{
		ParentWord:     parent,
		ParentLanguage: parentLang,
		OriginWord:     origin,
		OriginLanguage: originLang,
		Relationship:   rel,
	}
}

func root(word, language string) domain.WordListing {
	return domain.WordListing{Word: word, Language: language}
}

func nodeIDs(g *Graph) []string {
	var ids []string
	for _, n := range g.Nodes {
		if !n.IsGroup {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

func node(t *testing.T, g *Graph, id string) Node {
	t.Helper()
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	require.Failf(t, "node not found", "%s", id)
	return Node{}
}

func assertEndpoints(t *testing.T, g *Graph) {
	t.Helper()
	ids := make(map[string]bool)
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	for _, e := range g.Edges {
		assert.True(t, ids[e.Source], "edge %s source missing", e.ID)
		assert.True(t, ids[e.Target], "edge %s target missing", e.ID)
	}
	assert.LessOrEqual(t, g.Stats.NodesDrawn, g.Stats.NodesObtained)
}

func TestReduce_ClashPrefersNonDescendant(t *testing.T) {
	t.Parallel()

	records := []domain.DerivationRecord{
		rec("cat", "English", "catt", "Old English", domain.DescendantInherited),
		rec("cat", "English", "chat", "French", domain.RelationshipBorrowed),
	}
	g := Reduce(records, root("cat", "English"), Options{})

	assert.Equal(t, 1, g.Stats.Clashes)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "chat__French", g.Edges[0].Source)
	assert.Equal(t, "cat__English", g.Edges[0].Target)
	assert.Equal(t, "chat__French..-->..cat__English", g.Edges[0].ID)
	assert.Equal(t, domain.EdgeStyleSolid, g.Edges[0].Category)

	assert.ElementsMatch(t, []string{"cat__English", "chat__French"}, nodeIDs(g))
	assert.Equal(t, 1, g.Stats.FalseRoots)
	assert.Equal(t, 3, g.Stats.NodesObtained)
	assert.Equal(t, 2, g.Stats.NodesDrawn)
	assertEndpoints(t, g)
}

func TestReduce_KeepFalseRootsTagsImpure(t *testing.T) {
	t.Parallel()

	records := []domain.DerivationRecord{
		rec("cat", "English", "catt", "Old English", domain.DescendantInherited),
		rec("cat", "English", "chat", "French", domain.RelationshipBorrowed),
	}
	g := Reduce(records, root("cat", "English"), Options{KeepFalseRoots: true})

	assert.Len(t, g.Nodes, 3)
	assert.True(t, node(t, g, "catt__Old English").IsImpure)
	assert.False(t, node(t, g, "chat__French").IsImpure)
	require.Len(t, g.Edges, 1)
	assert.False(t, g.Edges[0].IsImpure)
	assert.Equal(t, 1, g.Stats.FalseRoots)
	assertEndpoints(t, g)
}

func TestReduce_BackupEdgesSurviveOnlyWhenKeepingFalseRoots(t *testing.T) {
	t.Parallel()

	backup := rec("wagon", "English", "*wegʰ-", "Proto-Indo-European", domain.DescendantInherited)
	backup.IsBackupChoice = true
	records := []domain.DerivationRecord{
		backup,
		rec("wagon", "English", "wægn", "Old English", domain.RelationshipInherited),
	}
	r := root("*wegʰ-", "Proto-Indo-European")

	strict := Reduce(records, r, Options{})
	assert.Equal(t, []string{"*wegʰ-__Proto-Indo-European"}, nodeIDs(strict))
	assert.Empty(t, strict.Edges)
	assert.Equal(t, 2, strict.Stats.FalseRoots)
	assertEndpoints(t, strict)

	kept := Reduce(records, r, Options{KeepFalseRoots: true})
	require.Len(t, kept.Edges, 2)
	for _, e := range kept.Edges {
		assert.True(t, e.IsImpure, e.ID)
	}
	assert.True(t, node(t, kept, "wagon__English").IsImpure)
	assert.True(t, node(t, kept, "wægn__Old English").IsImpure)
	assert.False(t, node(t, kept, "*wegʰ-__Proto-Indo-European").IsImpure)
	assert.Equal(t, 1, kept.Stats.Clashes)
	assertEndpoints(t, kept)
}

func TestReduce_DropsPlaceholdersAndSelfLoops(t *testing.T) {
	t.Parallel()

	records := []domain.DerivationRecord{
		rec("-", "English", "cat", "English", domain.RelationshipFrom),
		rec("cat", "English", "*", "Proto-Germanic", domain.RelationshipFrom),
		rec("cat", "", "catt", "Old English", domain.RelationshipFrom),
		rec("cat", "English", "cat", "English", domain.RelationshipFrom),
		rec("cat", "English", "catt", "Old English", domain.RelationshipInherited),
	}
	g := Reduce(records, root("cat", "English"), Options{})

	assert.Equal(t, 2, g.Stats.DerivationsObtained)
	assert.Equal(t, 2, g.Stats.NodesObtained)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "catt__Old English", g.Edges[0].Source)
}

func TestReduce_BackfillsDefinitions(t *testing.T) {
	t.Parallel()

	withDef := rec("knyght", "Middle English", "cniht", "Old English", domain.RelationshipInherited)
	withDef.ParentDefinition = []domain.DefinitionSpec{{Text: "A knight."}}
	records := []domain.DerivationRecord{
		rec("knight", "English", "knyght", "Middle English", domain.RelationshipInherited),
		withDef,
	}
	g := Reduce(records, root("knight", "English"), Options{})

	assert.Equal(t, []domain.DefinitionSpec{{Text: "A knight."}}, node(t, g, "knyght__Middle English").Definition)
	assert.Nil(t, records[0].OriginDefinition)
}

func TestReduce_EtymonChain(t *testing.T) {
	t.Parallel()

	records := []domain.DerivationRecord{
		rec("ナイト", "Japanese", "knight", "English", domain.DescendantBorrowed),
		rec("knight", "English", "knyght", "Middle English", domain.RelationshipInherited),
		rec("knyght", "Middle English", "cniht", "Old English", domain.RelationshipInherited),
	}
	g := Reduce(records, root("knight", "English"), Options{})

	assert.Equal(t, 2, g.Stats.DirectLength)
	assert.True(t, node(t, g, "knyght__Middle English").IsEtymon)
	assert.True(t, node(t, g, "cniht__Old English").IsEtymon)
	assert.False(t, node(t, g, "ナイト__Japanese").IsEtymon)

	src := node(t, g, "knight__English")
	assert.True(t, src.IsSource)
	assert.False(t, src.IsEtymon)

	assert.Len(t, g.Nodes, 4)
	assert.Len(t, g.Edges, 3)
	assert.Len(t, g.Languages, 4)
	assert.Len(t, g.Stats.TimingSegments, 5)
	assertEndpoints(t, g)
}

func TestReduce_EtymonWalkStopsOnCycle(t *testing.T) {
	t.Parallel()

	records := []domain.DerivationRecord{
		rec("aa", "English", "bb", "English", domain.RelationshipFrom),
		rec("bb", "English", "aa", "English", domain.RelationshipFrom),
	}
	g := Reduce(records, root("aa", "English"), Options{})

	assert.Equal(t, 1, g.Stats.DirectLength)
	assert.Len(t, g.Edges, 2)
	assertEndpoints(t, g)
}

func TestReduce_GroupSiblings(t *testing.T) {
	t.Parallel()

	records := []domain.DerivationRecord{
		rec("acqua", "Italian", "aqua", "Latin", domain.DescendantInherited),
		rec("eau", "French", "aqua", "Latin", domain.DescendantInherited),
		rec("aqua", "Latin", "akʷā", "Proto-Italic", domain.RelationshipInherited),
	}

	flat := Reduce(records, root("aqua", "Latin"), Options{})
	for _, n := range flat.Nodes {
		assert.False(t, n.IsGroup)
		assert.Empty(t, n.Parent)
	}

	g := Reduce(records, root("aqua", "Latin"), Options{GroupSiblings: true})
	group := node(t, g, "group::aqua__Latin")
	assert.True(t, group.IsGroup)
	assert.Equal(t, "group::aqua__Latin", node(t, g, "acqua__Italian").Parent)
	assert.Equal(t, "group::aqua__Latin", node(t, g, "eau__French").Parent)
	assert.Empty(t, node(t, g, "aqua__Latin").Parent)
	assert.Equal(t, 4, g.Stats.NodesDrawn)
	assertEndpoints(t, g)
}

func TestReduce_Empty(t *testing.T) {
	t.Parallel()

	g := Reduce(nil, root("cat", "English"), Options{KeepFalseRoots: true})
	assert.Empty(t, g.Nodes)
	assert.NotNil(t, g.Edges)
	assert.Zero(t, g.Stats.DerivationsObtained)
}

func TestReduce_EndpointsAlwaysDrawn(t *testing.T) {
	t.Parallel()

	backup := rec("way", "English", "wegʰ", "Proto-Indo-European", domain.DescendantInherited)
	backup.IsBackupChoice = true
	records := []domain.DerivationRecord{
		rec("cat", "English", "catt", "Old English", domain.DescendantInherited),
		rec("cat", "English", "chat", "French", domain.RelationshipBorrowed),
		rec("chat", "French", "cattus", "Latin", domain.RelationshipInherited),
		rec("gato", "Spanish", "cattus", "Latin", domain.DescendantInherited),
		rec("katze", "German", "cattus", "Latin", domain.DescendantBorrowed),
		rec("katze", "German", "kattuz", "Proto-Germanic", domain.RelationshipInherited),
		backup,
		rec("way", "English", "weg", "Old English", domain.RelationshipInherited),
		rec("island", "English", "ealand", "Old English", domain.RelationshipFrom),
	}

	for _, opts := range []Options{{}, {KeepFalseRoots: true}, {GroupSiblings: true}, {KeepFalseRoots: true, GroupSiblings: true}} {
		g := Reduce(records, root("cat", "English"), opts)
		assertEndpoints(t, g)
	}
}

func TestLanguageStyles(t *testing.T) {
	t.Parallel()

	assert.Equal(t, styleFor("Latin"), styleFor("Latin"))
	assert.Equal(t, darkText, contrastColor(255, 255, 255))
	assert.Equal(t, lightText, contrastColor(0, 0, 0))
	assert.Equal(t, lightText, contrastColor(0, 0, 255))

	records := []domain.DerivationRecord{rec("cat", "English", "chat", "French", domain.RelationshipBorrowed)}
	a := Reduce(records, root("cat", "English"), Options{})
	b := Reduce(records, root("cat", "English"), Options{})
	assert.Equal(t, a.Languages, b.Languages)
	assert.Regexp(t, `^rgb\(\d+,\d+,\d+\)$`, a.Languages["English"].Background)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

type mockRecordRepo struct {
	RecordsBySearchFunc func(ctx context.Context, searchIdentifier string) ([]domain.DerivationRecord, error)
}

func (m *mockRecordRepo) RecordsBySearch(ctx context.Context, searchIdentifier string) ([]domain.DerivationRecord, error) {
	if m.RecordsBySearchFunc != nil {
		return m.RecordsBySearchFunc(ctx, searchIdentifier)
	}
	return nil, nil
}

func TestService_Graph(t *testing.T) {
	t.Parallel()

	listing := domain.WordListing{Word: "cat", Language: "English"}
	var gotSearch string
	repo := &mockRecordRepo{
		RecordsBySearchFunc: func(_ context.Context, searchIdentifier string) ([]domain.DerivationRecord, error) {
			gotSearch = searchIdentifier
			return []domain.DerivationRecord{rec("cat", "English", "chat", "French", domain.RelationshipBorrowed)}, nil
		},
	}
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo)

	g, err := svc.Graph(context.Background(), Request{Listing: listing, IncludeDescendants: true})
	require.NoError(t, err)
	assert.Equal(t, domain.ListingIdentifier(&listing, true, false), gotSearch)
	assert.Len(t, g.Edges, 1)
}

func TestService_GraphErrors(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("db down")
	repo := &mockRecordRepo{
		RecordsBySearchFunc: func(context.Context, string) ([]domain.DerivationRecord, error) {
			return nil, dbErr
		},
	}
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo)

	_, err := svc.Graph(context.Background(), Request{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Graph(context.Background(), Request{Listing: domain.WordListing{Word: "cat", Language: "English"}})
	assert.ErrorIs(t, err, dbErr)
}
