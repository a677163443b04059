// Package vedarag is a Go client for the vedarag retrieval API.
//
// The client talks HTTP to a running server and maps the error envelope
// back onto sentinel errors, so callers can branch with errors.Is.
//
//	client, _ := vedarag.New("http://localhost:8080", vedarag.WithAPIKey(key))
//	res, err := client.Query(ctx, vedarag.QueryRequest{
//	    Query:      "what is the nature of the self",
//	    Source:     vedarag.SourceVedabase,
//	    BookFilter: "bg",
//	})
//	if errors.Is(err, vedarag.ErrEmbeddingProviderError) {
//	    // retry later
//	}
//	for _, r := range res.Results {
//	    fmt.Println(r.Score, r.ChunkText)
//	}
package vedarag
