// Package mcp exposes document search over the Model Context Protocol.
package mcp

// SearchInput defines the input parameters for the search_documents tool.
type SearchInput struct {
	// Query is the semantic search query.
	Query string `json:"query" jsonschema:"required,description=The semantic search query text"`
	// MaxResults is the maximum number of records to return.
	MaxResults int `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=50,default=10,description=Maximum number of records to return"`
}

// SearchOutput contains the search results.
type SearchOutput struct {
	// Results is the list of matching records, most similar first.
	Results []ResultItem `json:"results"`
	// Message provides informational context (e.g. an empty collection).
	Message string `json:"message,omitempty"`
}

// ResultItem is a single record match from similarity search.
type ResultItem struct {
	// Source is the originating file name.
	Source string `json:"source"`
	// Score is the cosine similarity (0-1).
	Score float64 `json:"score"`
	// Document is the stored text of the record.
	Document string `json:"document"`
	// UploadDate and Category are the record's metadata fields.
	UploadDate string `json:"upload_date"`
	Category   string `json:"category"`
}

// StatusInput defines the input for the collection_status tool.
// The tool takes no parameters.
type StatusInput struct{}

// StatusOutput reports the state of the target collection.
type StatusOutput struct {
	// Collection is the collection name being served.
	Collection string `json:"collection"`
	// Records is the number of stored records.
	Records uint64 `json:"records"`
}
