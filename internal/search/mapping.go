package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for search documents.
//
// The mapping is designed with these priorities:
//  1. Fast full-text search on event/artist names with English stemming
//  2. Boosted relevance for artist-name matches on concerts
//  3. Exact keyword matching for type, genre, city, and date filters
//  4. Term vectors enabled on key fields for highlighting
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Name field - primary search target, boosted
	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = en.AnalyzerName
	nameFieldMapping.Store = true
	nameFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	// Artists - denormalized onto concerts and festivals
	artistsFieldMapping := bleve.NewTextFieldMapping()
	artistsFieldMapping.Analyzer = en.AnalyzerName
	artistsFieldMapping.Store = true
	artistsFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("artists", artistsFieldMapping)

	// Festival name - denormalized onto lineup-artist documents
	festivalFieldMapping := bleve.NewTextFieldMapping()
	festivalFieldMapping.Analyzer = en.AnalyzerName
	festivalFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("festival_name", festivalFieldMapping)

	// Venue - searchable with simple analyzer (no stemming; venue names
	// like "The Wiltern" don't stem well)
	venueFieldMapping := bleve.NewTextFieldMapping()
	venueFieldMapping.Analyzer = simple.Name
	venueFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("venue", venueFieldMapping)

	// --- Keyword fields (exact match, facetable) ---

	typeFieldMapping := bleve.NewTextFieldMapping()
	typeFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("type", typeFieldMapping)

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// City is lowercased at index time for exact filter matches
	cityFieldMapping := bleve.NewTextFieldMapping()
	cityFieldMapping.Analyzer = keyword.Name
	cityFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("city", cityFieldMapping)

	// Genres - keyword analyzer keeps compound names intact ("indie rock")
	genresFieldMapping := bleve.NewTextFieldMapping()
	genresFieldMapping.Analyzer = keyword.Name
	genresFieldMapping.Store = true
	genresFieldMapping.IncludeTermVectors = true // For faceting
	docMapping.AddFieldMappingsAt("genres", genresFieldMapping)

	// Date as YYYY-MM-DD keyword; lexicographic order matches
	// chronological order, so term-range queries work directly
	dateFieldMapping := bleve.NewTextFieldMapping()
	dateFieldMapping.Analyzer = keyword.Name
	dateFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("date", dateFieldMapping)

	stageFieldMapping := bleve.NewTextFieldMapping()
	stageFieldMapping.Analyzer = keyword.Name
	stageFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("stage", stageFieldMapping)

	dayFieldMapping := bleve.NewTextFieldMapping()
	dayFieldMapping.Analyzer = keyword.Name
	dayFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("day", dayFieldMapping)

	headlinerFieldMapping := bleve.NewBooleanFieldMapping()
	headlinerFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("headliner", headlinerFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
