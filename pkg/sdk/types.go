package vedarag

// Source selects which corpus a query searches.
type Source string

// Source values.
const (
	SourceAll        Source = "all"
	SourcePhilosophy Source = "philosophy"
	SourceVedabase   Source = "vedabase"
)

// QueryRequest is the input of Client.Query. Zero values are omitted and
// take the server defaults.
type QueryRequest struct {
	Query           string `json:"query"`
	TopK            int    `json:"topK,omitempty"`
	Source          Source `json:"source,omitempty"`
	QuestionFilter  string `json:"questionFilter,omitempty"`
	TraditionFilter string `json:"traditionFilter,omitempty"`
	BookFilter      string `json:"bookFilter,omitempty"`
}

// QueryResponse is the ranked result list.
type QueryResponse struct {
	Query   string   `json:"query"`
	Count   int      `json:"count"`
	Results []Result `json:"results"`

	// EmbeddingTokens is the provider token count; zero when served from cache.
	EmbeddingTokens int `json:"-"`
}

// Result is one ranked passage. Exactly one of Response and Verse is set.
type Result struct {
	Score       float64   `json:"score"`
	Source      Source    `json:"source"`
	SectionType string    `json:"sectionType"`
	ChunkText   string    `json:"chunkText"`
	Response    *Response `json:"response,omitempty"`
	Verse       *Verse    `json:"vedabaseVerse,omitempty"`
}

// Response is a tradition's answer to a question.
type Response struct {
	ID                       string `json:"id"`
	TraditionName            string `json:"tradition_name"`
	QuestionNumber           string `json:"question_number"`
	QuestionTitle            string `json:"question_title"`
	Opening                  string `json:"opening"`
	HistoricalDevelopment    string `json:"historical_development,omitempty"`
	KeyConcepts              string `json:"key_concepts,omitempty"`
	CoreArguments            string `json:"core_arguments,omitempty"`
	CounterArguments         string `json:"counter_arguments,omitempty"`
	TextualFoundation        string `json:"textual_foundation,omitempty"`
	InternalVariations       string `json:"internal_variations,omitempty"`
	ContemporaryApplications string `json:"contemporary_applications,omitempty"`
}

// Verse is a Vedabase verse.
type Verse struct {
	ID          string `json:"id"`
	BookCode    string `json:"book_code"`
	BookName    string `json:"book_name"`
	Chapter     string `json:"chapter"`
	VerseNumber string `json:"verse_number"`
	Sanskrit    string `json:"sanskrit,omitempty"`
	Synonyms    string `json:"synonyms,omitempty"`
	Translation string `json:"translation,omitempty"`
}

// Question is a catalog question.
type Question struct {
	Number string `json:"number"`
	Title  string `json:"title"`
}

// Book is a Vedabase book.
type Book struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// HealthStatus represents the aggregated server health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded"
	Checks map[string]string `json:"checks"` // component → "ok"/"error"
}
