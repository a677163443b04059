package corpus

import (
	"database/sql"

	domcorpus "github.com/kailas-cloud/vedarag/internal/domain/corpus"
)

type verseChunkRow struct {
	ChunkText   string         `db:"chunk_text"`
	ChunkType   string         `db:"chunk_type"`
	VerseID     int64          `db:"verse_id"`
	Chapter     sql.NullString `db:"chapter"`
	VerseNumber sql.NullString `db:"verse_number"`
	Sanskrit    sql.NullString `db:"sanskrit"`
	Synonyms    sql.NullString `db:"synonyms"`
	Translation sql.NullString `db:"translation"`
	BookCode    string         `db:"book_code"`
	BookName    string         `db:"book_name"`
}

func (r verseChunkRow) toDomain() domcorpus.VerseChunk {
	return domcorpus.VerseChunk{
		Text:      r.ChunkText,
		ChunkType: r.ChunkType,
		Verse: domcorpus.Verse{
			ID:          r.VerseID,
			BookCode:    r.BookCode,
			BookName:    r.BookName,
			Chapter:     r.Chapter.String,
			VerseNumber: r.VerseNumber.String,
			Sanskrit:    r.Sanskrit.String,
			Synonyms:    r.Synonyms.String,
			Translation: r.Translation.String,
		},
	}
}

type responseRow struct {
	ID                       int64          `db:"id"`
	Opening                  sql.NullString `db:"opening"`
	HistoricalDevelopment    sql.NullString `db:"historical_development"`
	KeyConcepts              sql.NullString `db:"key_concepts"`
	CoreArguments            sql.NullString `db:"core_arguments"`
	CounterArguments         sql.NullString `db:"counter_arguments"`
	TextualFoundation        sql.NullString `db:"textual_foundation"`
	InternalVariations       sql.NullString `db:"internal_variations"`
	ContemporaryApplications sql.NullString `db:"contemporary_applications"`
	QuestionNumber           string         `db:"question_number"`
	QuestionTitle            string         `db:"question_title"`
	TraditionName            string         `db:"tradition_name"`
}

func (r responseRow) toDomain() domcorpus.Response {
	return domcorpus.Response{
		ID:                       r.ID,
		TraditionName:            r.TraditionName,
		QuestionNumber:           r.QuestionNumber,
		QuestionTitle:            r.QuestionTitle,
		Opening:                  r.Opening.String,
		HistoricalDevelopment:    r.HistoricalDevelopment.String,
		KeyConcepts:              r.KeyConcepts.String,
		CoreArguments:            r.CoreArguments.String,
		CounterArguments:         r.CounterArguments.String,
		TextualFoundation:        r.TextualFoundation.String,
		InternalVariations:       r.InternalVariations.String,
		ContemporaryApplications: r.ContemporaryApplications.String,
	}
}

type questionRow struct {
	Number string `db:"number"`
	Title  string `db:"title"`
}

type bookRow struct {
	Code string `db:"code"`
	Name string `db:"name"`
}
