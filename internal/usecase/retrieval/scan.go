package retrieval

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/vedarag/internal/domain"
	"github.com/kailas-cloud/vedarag/internal/domain/match"
	"github.com/kailas-cloud/vedarag/internal/domain/query"
	"github.com/kailas-cloud/vedarag/internal/domain/result"
	"github.com/kailas-cloud/vedarag/internal/domain/source"
	"github.com/kailas-cloud/vedarag/internal/logger"
	"github.com/kailas-cloud/vedarag/internal/metrics"
	"github.com/kailas-cloud/vedarag/internal/ranking"
)

// Candidate outcomes, used as the "outcome" metric label.
const (
	outcomeAccepted       = "accepted"
	outcomeBelowThreshold = "below_threshold"
	outcomeSourceFiltered = "source_filtered"
	outcomeMissingChunk   = "missing_chunk_id"
	outcomeMissingResp    = "missing_response_id"
	outcomeFiltered       = "filtered"
	outcomeBookFiltered   = "book_filtered"
	outcomeUnresolved     = "unresolved"
)

type evaluation struct {
	res     result.Result
	src     source.Source
	outcome string
}

func (e evaluation) accepted() bool { return e.outcome == outcomeAccepted }

// scan drains it in index order until topK candidates are accepted.
// The accumulator is not sorted here. Outcomes are counted as evaluations
// are folded, so window members past the cutoff are not recorded.
func (s *Service) scan(ctx context.Context, q query.Query, terms []string, it *candidates) []result.Result {
	acc := make([]result.Result, 0, q.TopK())
	for len(acc) < q.TopK() {
		window := it.Take(s.concurrency)
		if len(window) == 0 {
			break
		}
		for _, ev := range s.evaluateWindow(ctx, q, terms, window) {
			record(ev)
			if !ev.accepted() {
				continue
			}
			acc = append(acc, ev.res)
			if len(acc) == q.TopK() {
				break
			}
		}
	}
	return acc
}

func record(ev evaluation) {
	label := string(ev.src)
	if label == "" {
		label = "unknown"
	}
	metrics.RetrievalCandidatesTotal.WithLabelValues(label, ev.outcome).Inc()
}

// evaluateWindow evaluates a window of matches, concurrently when it holds
// more than one, and returns evaluations in window order.
func (s *Service) evaluateWindow(ctx context.Context, q query.Query, terms []string, window []match.Match) []evaluation {
	out := make([]evaluation, len(window))
	if len(window) == 1 {
		out[0] = s.evaluate(ctx, q, terms, window[0])
		return out
	}

	var g errgroup.Group
	g.SetLimit(len(window))
	for i, m := range window {
		g.Go(func() error {
			out[i] = s.evaluate(ctx, q, terms, m)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// evaluate applies threshold, classification, filters and resolution to one match.
func (s *Service) evaluate(ctx context.Context, q query.Query, terms []string, m match.Match) evaluation {
	if !s.ranker.Accept(m.Score) {
		return s.drop(ctx, m, "", outcomeBelowThreshold)
	}

	src := m.Source()
	if !q.Scope().Admits(src) {
		return s.drop(ctx, m, src, outcomeSourceFiltered)
	}

	if src == source.Vedabase {
		return s.evaluateVedabase(ctx, q, terms, m)
	}
	return s.evaluatePhilosophy(ctx, q, terms, m)
}

func (s *Service) evaluateVedabase(ctx context.Context, q query.Query, terms []string, m match.Match) evaluation {
	log := logger.FromContextOr(ctx, s.logger)

	chunkID, ok := m.Int64(match.KeyChunkID)
	if !ok {
		log.Error("Vedabase match without chunk_id", zap.String("match_id", m.ID))
		return s.drop(ctx, m, source.Vedabase, outcomeMissingChunk)
	}

	vc, err := s.store.VerseChunk(ctx, chunkID)
	if err != nil {
		s.logResolveError(log, m, err)
		return s.drop(ctx, m, source.Vedabase, outcomeUnresolved)
	}

	if bc := q.BookCode(); bc != "" && !strings.EqualFold(vc.Verse.BookCode, bc) {
		return s.drop(ctx, m, source.Vedabase, outcomeBookFiltered)
	}

	score := s.ranker.Score(m.Score, ranking.Lexical(terms, vc.Text))
	return accept(source.Vedabase, result.NewVedabase(score, vc))
}

func (s *Service) evaluatePhilosophy(ctx context.Context, q query.Query, terms []string, m match.Match) evaluation {
	// A book filter narrows the request to scripture.
	if q.BookCode() != "" {
		return s.drop(ctx, m, source.Philosophy, outcomeBookFiltered)
	}

	responseID, ok := m.Int64(match.KeyResponseID)
	if !ok {
		return s.drop(ctx, m, source.Philosophy, outcomeMissingResp)
	}

	if !metadataContains(m, match.KeyQuestionNumber, q.QuestionNumber()) ||
		!metadataContains(m, match.KeyTraditionName, q.Tradition()) {
		return s.drop(ctx, m, source.Philosophy, outcomeFiltered)
	}

	log := logger.FromContextOr(ctx, s.logger)

	text, err := s.store.ChunkText(ctx, m.ID)
	if err != nil {
		s.logResolveError(log, m, err)
		return s.drop(ctx, m, source.Philosophy, outcomeUnresolved)
	}
	resp, err := s.store.Response(ctx, responseID)
	if err != nil {
		s.logResolveError(log, m, err)
		return s.drop(ctx, m, source.Philosophy, outcomeUnresolved)
	}

	sectionType, _ := m.String(match.KeySectionType)
	score := s.ranker.Score(m.Score, ranking.Lexical(terms, text))
	return accept(source.Philosophy, result.NewPhilosophy(score, sectionType, text, resp))
}

// metadataContains reports whether metadata[key] contains want, ignoring case.
// An empty want always passes; a missing field fails an active filter.
func metadataContains(m match.Match, key, want string) bool {
	if want == "" {
		return true
	}
	got, ok := m.String(key)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(got), strings.ToLower(want))
}

func accept(src source.Source, r result.Result) evaluation {
	return evaluation{res: r, src: src, outcome: outcomeAccepted}
}

func (s *Service) drop(ctx context.Context, m match.Match, src source.Source, outcome string) evaluation {
	logger.FromContextOr(ctx, s.logger).Debug("Candidate dropped",
		zap.String("match_id", m.ID),
		zap.Float64("similarity", m.Score),
		zap.String("outcome", outcome),
	)
	return evaluation{src: src, outcome: outcome}
}

func (s *Service) logResolveError(log *zap.Logger, m match.Match, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		log.Debug("Candidate not found in store", zap.String("match_id", m.ID), zap.Error(err))
		return
	}
	log.Warn("Failed to resolve candidate", zap.String("match_id", m.ID), zap.Error(err))
}
