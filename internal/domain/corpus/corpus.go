// Package corpus holds read models resolved from the relational store.
package corpus

// Response is one tradition's answer to one question.
// Opening is mandatory; every other section may be empty.
type Response struct {
	ID                       int64
	TraditionName            string
	QuestionNumber           string
	QuestionTitle            string
	Opening                  string
	HistoricalDevelopment    string
	KeyConcepts              string
	CoreArguments            string
	CounterArguments         string
	TextualFoundation        string
	InternalVariations       string
	ContemporaryApplications string
}

// Verse is a scripture verse with its book.
type Verse struct {
	ID          int64
	BookCode    string
	BookName    string
	Chapter     string
	VerseNumber string
	Sanskrit    string
	Synonyms    string
	Translation string
}

// VerseChunk is a Vedabase chunk resolved together with its verse and book.
type VerseChunk struct {
	Text      string
	ChunkType string
	Verse     Verse
}

// Chunk types produced by the Vedabase importer.
const (
	ChunkVerseText = "verse_text"
	ChunkPurport   = "purport_paragraph"
)

// Question is a catalog entry for the philosophy corpus.
type Question struct {
	Number string
	Title  string
}

// Book is a catalog entry for the Vedabase corpus.
type Book struct {
	Code string
	Name string
}
