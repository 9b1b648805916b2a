// Package search runs the seekr search pipeline on top of a storage Backend.
//
// # Overview
//
// Every search goes through the same steps:
//
//  1. The raw text is parsed into a query.ParsedQuery (phrases, NOT, AND and
//     OR operators, residual words).
//  2. The backend is asked for the total count and for one page of
//     candidates matching the parsed base query.
//  3. When the query carried operators, candidates are re-filtered with
//     query.Apply.
//  4. The facets.Engine restricts the page by entity type and selected tags.
//  5. Tag facets, statistics and the pagination label are computed for the
//     presentation layer.
//
// An empty query does not search. It shows one of the seed views instead:
// recently updated results, most used results or results with tags.
//
// # Components
//
//   - Service: synchronous, stateless pipeline used by the CLI and the REST API.
//   - Session: long-lived, event-driven search state for interactive clients
//     (the shell and the WebSocket endpoint). Input is debounced, filter
//     changes are coalesced, and only the most recently issued fetch is ever
//     rendered.
//
// # Usage
//
// One-shot search:
//
//	svc := search.NewService(store, search.DefaultOptions())
//	res, err := svc.Search(ctx, search.Params{Query: `"release notes" -draft`, Page: 1})
//
// Interactive session:
//
//	sess := search.NewSession(ctx, store, search.DefaultOptions())
//	defer sess.Close()
//	sess.SetQuery("work")
//	for view := range sess.Updates() {
//		fmt.Println(view.PageLabel, len(view.Results.Results))
//	}
//
// # Errors
//
// Backend failures never panic and never leave stale results on screen: the
// Service returns empty Results together with the wrapped error, and the
// Session publishes a View with Err set. Filters and history are kept.
package search
