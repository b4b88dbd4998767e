package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/ar"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve mapping for poem documents.
//
// Title and verse text use the Arabic analyzer (normalization, stop words, light
// stemming). Category is a keyword so filters and facets match whole names.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = ar.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = ar.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true // highlighting
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = ar.AnalyzerName
	textFieldMapping.Store = true
	textFieldMapping.IncludeTermVectors = true // highlighting
	docMapping.AddFieldMappingsAt("text", textFieldMapping)

	categoryFieldMapping := bleve.NewTextFieldMapping()
	categoryFieldMapping.Analyzer = keyword.Name
	categoryFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("category", categoryFieldMapping)

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	poemIDFieldMapping := bleve.NewNumericFieldMapping()
	poemIDFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("poem_id", poemIDFieldMapping)

	verseCountFieldMapping := bleve.NewNumericFieldMapping()
	verseCountFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("verse_count", verseCountFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
