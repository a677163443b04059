package chi

import (
	"strconv"

	"github.com/kailas-cloud/vedarag/internal/domain/corpus"
	"github.com/kailas-cloud/vedarag/internal/domain/result"
)

// ErrorResponseCode is the machine-readable error code of the error envelope.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeInvalidRequest         ErrorResponseCode = "invalid_request"
	ErrorResponseCodeUnauthorized           ErrorResponseCode = "unauthorized"
	ErrorResponseCodeEmbeddingProviderError ErrorResponseCode = "embedding_provider_error"
	ErrorResponseCodeVectorSearchFailed     ErrorResponseCode = "vector_search_failed"
	ErrorResponseCodeInternalError          ErrorResponseCode = "internal_error"
)

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// QueryRequest is the POST /query body.
type QueryRequest struct {
	Query           string `json:"query"`
	TopK            *int   `json:"topK,omitempty"`
	Source          string `json:"source,omitempty"`
	QuestionFilter  string `json:"questionFilter,omitempty"`
	TraditionFilter string `json:"traditionFilter,omitempty"`
	BookFilter      string `json:"bookFilter,omitempty"`
}

// QueryResponse is the POST /query success body.
type QueryResponse struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []SearchResult `json:"results"`
}

// SearchResult carries exactly one of Response or VedabaseVerse.
type SearchResult struct {
	Score         float64        `json:"score"`
	Source        string         `json:"source"`
	SectionType   string         `json:"sectionType"`
	ChunkText     string         `json:"chunkText"`
	Response      *ResponseDTO   `json:"response,omitempty"`
	VedabaseVerse *VerseResponse `json:"vedabaseVerse,omitempty"`
}

// ResponseDTO is a tradition's answer to a question.
type ResponseDTO struct {
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

// VerseResponse is a Vedabase verse with its book.
type VerseResponse struct {
	ID          string `json:"id"`
	BookCode    string `json:"book_code"`
	BookName    string `json:"book_name"`
	Chapter     string `json:"chapter"`
	VerseNumber string `json:"verse_number"`
	Sanskrit    string `json:"sanskrit,omitempty"`
	Synonyms    string `json:"synonyms,omitempty"`
	Translation string `json:"translation,omitempty"`
}

// TraditionsResponse is the GET /traditions body.
type TraditionsResponse struct {
	Traditions []string `json:"traditions"`
}

// QuestionItem is one catalog question.
type QuestionItem struct {
	Number string `json:"number"`
	Title  string `json:"title"`
}

// QuestionsResponse is the GET /questions body.
type QuestionsResponse struct {
	Questions []QuestionItem `json:"questions"`
}

// QuestionsParams holds GET /questions query parameters.
type QuestionsParams struct {
	Tradition *string `form:"tradition,omitempty" json:"tradition,omitempty"`
}

// BookItem is one Vedabase book.
type BookItem struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// BooksResponse is the GET /vedabase-books body.
type BooksResponse struct {
	Books []BookItem `json:"books"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func resultToDTO(r result.Result) SearchResult {
	item := SearchResult{
		Score:       r.Score(),
		Source:      string(r.Source()),
		SectionType: r.SectionType(),
		ChunkText:   r.ChunkText(),
	}
	if resp, ok := r.Response(); ok {
		item.Response = responseToDTO(resp)
	}
	if v, ok := r.Verse(); ok {
		item.VedabaseVerse = verseToDTO(v)
	}
	return item
}

func responseToDTO(r corpus.Response) *ResponseDTO {
	return &ResponseDTO{
		ID:                       strconv.FormatInt(r.ID, 10),
		TraditionName:            r.TraditionName,
		QuestionNumber:           r.QuestionNumber,
		QuestionTitle:            r.QuestionTitle,
		Opening:                  r.Opening,
		HistoricalDevelopment:    r.HistoricalDevelopment,
		KeyConcepts:              r.KeyConcepts,
		CoreArguments:            r.CoreArguments,
		CounterArguments:         r.CounterArguments,
		TextualFoundation:        r.TextualFoundation,
		InternalVariations:       r.InternalVariations,
		ContemporaryApplications: r.ContemporaryApplications,
	}
}

func verseToDTO(v corpus.Verse) *VerseResponse {
	return &VerseResponse{
		ID:          strconv.FormatInt(v.ID, 10),
		BookCode:    v.BookCode,
		BookName:    v.BookName,
		Chapter:     v.Chapter,
		VerseNumber: v.VerseNumber,
		Sanskrit:    v.Sanskrit,
		Synonyms:    v.Synonyms,
		Translation: v.Translation,
	}
}

func questionsToDTO(qs []corpus.Question) []QuestionItem {
	out := make([]QuestionItem, len(qs))
	for i, q := range qs {
		out[i] = QuestionItem{Number: q.Number, Title: q.Title}
	}
	return out
}

func booksToDTO(bs []corpus.Book) []BookItem {
	out := make([]BookItem, len(bs))
	for i, b := range bs {
		out[i] = BookItem{Code: b.Code, Name: b.Name}
	}
	return out
}
