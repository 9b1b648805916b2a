package search

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rubiojr/seekr/pkg/debounce"
	"github.com/rubiojr/seekr/pkg/facets"
	"github.com/rubiojr/seekr/pkg/history"
	"github.com/rubiojr/seekr/pkg/paging"
	"github.com/rubiojr/seekr/pkg/query"
)

const updatesBuffer = 16

// View is one rendering published by a Session.
type View struct {
	Results

	// Seq is the fetch sequence number the view was rendered from.
	Seq uint64 `json:"seq"`

	// Err is set when the backend failed; Results is then empty.
	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// Session owns the state of one interactive search: query text, filter
// state, pagination and history.
//
// All state lives on a single loop goroutine. Public methods, debounce
// timers and backend fetches only post events to that loop, so the state
// itself needs no locking. Every fetch gets a sequence number; a response
// is rendered only if no newer fetch was issued in the meantime, and the
// superseded fetch's context is cancelled.
type Session struct {
	id      string
	backend Backend
	opts    Options

	ctx     context.Context
	cancel  context.CancelFunc
	events  chan func()
	updates chan View
	stopped chan struct{}
	once    sync.Once

	searchDebounce *debounce.Debouncer
	filterDebounce *debounce.Debouncer

	// Loop-owned state. text is what the user typed last; searched is the
	// text behind parsed, which lags text until the search debounce fires.
	text        string
	searched    string
	parsed      query.ParsedQuery
	seed        SeedKind
	engine      *facets.Engine
	pager       *paging.Paginator
	hist        *history.History
	current     *fetchResult
	seq         uint64
	fetchCancel context.CancelFunc
}

// NewSession starts a session bound to ctx. Close it to release the loop
// goroutine and the timers.
func NewSession(ctx context.Context, backend Backend, opts Options) *Session {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(ctx)

	s := &Session{
		id:      uuid.NewString(),
		backend: backend,
		opts:    opts,
		ctx:     ctx,
		cancel:  cancel,
		events:  make(chan func(), 64),
		updates: make(chan View, updatesBuffer),
		stopped: make(chan struct{}),
		engine:  facets.NewEngine(),
		pager:   paging.New(opts.PageSize),
		hist:    history.New(opts.HistorySize),
	}
	s.searchDebounce = debounce.New(opts.SearchDebounce, func() { s.post(s.runSearch) })
	s.filterDebounce = debounce.New(opts.FilterDebounce, func() { s.post(s.applyFilters) })
	s.engine.SetScheduler(s.filterDebounce.Trigger)

	go s.loop()
	logger.Debugf("session %s started", s.id)
	return s
}

// ID returns the unique session identifier.
func (s *Session) ID() string {
	return s.id
}

// Updates delivers every rendered View. When the consumer falls behind the
// oldest pending views are dropped. The channel is closed by Close.
func (s *Session) Updates() <-chan View {
	return s.updates
}

// SetQuery records new query text and restarts the search debounce.
func (s *Session) SetQuery(text string) {
	s.post(func() {
		s.text = text
		s.searchDebounce.Trigger()
	})
}

// Refresh re-fetches the current query or seed view right away, keeping
// the current page.
func (s *Session) Refresh() {
	s.post(func() {
		s.startFetch(max(s.pager.CurrentPage(), 1))
	})
}

// ShowSeed clears the query and shows a seed view.
func (s *Session) ShowSeed(kind SeedKind) {
	s.post(func() {
		s.searchDebounce.Stop()
		if kind == SeedNone {
			kind = SeedRecent
		}
		s.text = ""
		s.searched = ""
		s.parsed = query.ParsedQuery{}
		s.seed = kind
		s.pager.Reset()
		s.startFetch(1)
	})
}

// SetEntityFilter enables or disables an entity filter. Filter changes are
// debounced.
func (s *Session) SetEntityFilter(entity facets.Entity, enabled bool) {
	s.post(func() { s.engine.SetEntityFilter(entity, enabled) })
}

// SetTagFilter replaces the selected tags.
func (s *Session) SetTagFilter(tags []string) {
	s.post(func() { s.engine.SetTagFilter(tags) })
}

// ClearTagFilters removes the tag restriction.
func (s *Session) ClearTagFilters() {
	s.post(func() { s.engine.ClearTags() })
}

// NextPage fetches the following page, if any.
func (s *Session) NextPage() {
	s.post(func() {
		if s.pager.Next() {
			s.startFetch(s.pager.CurrentPage())
		}
	})
}

// PrevPage fetches the previous page, if any.
func (s *Session) PrevPage() {
	s.post(func() {
		if s.pager.Prev() {
			s.startFetch(s.pager.CurrentPage())
		}
	})
}

// History returns the accepted queries, most recent first.
func (s *Session) History() []string {
	return ask(s, s.hist.List)
}

// ClearHistory forgets every accepted query.
func (s *Session) ClearHistory() {
	s.post(s.hist.Clear)
}

// Filters returns the current filter state.
func (s *Session) Filters() facets.FilterState {
	return ask(s, s.engine.State)
}

// Close stops the session. Pending timers are cancelled, the in-flight
// fetch is abandoned and Updates is closed.
func (s *Session) Close() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
		s.searchDebounce.Stop()
		s.filterDebounce.Stop()
		close(s.updates)
		logger.Debugf("session %s closed", s.id)
	})
}

func (s *Session) loop() {
	defer close(s.stopped)
	for {
		select {
		case ev := <-s.events:
			ev()
		case <-s.ctx.Done():
			if s.fetchCancel != nil {
				s.fetchCancel()
			}
			return
		}
	}
}

// post queues ev for the loop. It reports false once the session is
// closed.
func (s *Session) post(ev func()) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// ask runs fn on the loop and returns its result, or the zero value when
// the session is closed.
func ask[T any](s *Session, fn func() T) T {
	reply := make(chan T, 1)
	var zero T
	if !s.post(func() { reply <- fn() }) {
		return zero
	}
	select {
	case v := <-reply:
		return v
	case <-s.stopped:
		return zero
	}
}

// runSearch fires after the search debounce.
func (s *Session) runSearch() {
	s.searched = s.text
	s.parsed = query.Parse(s.text)
	s.seed = SeedNone
	if !s.parsed.IsEmpty() {
		s.hist.Add(s.text)
	}
	s.pager.Reset()
	s.startFetch(1)
}

// applyFilters fires after the filter debounce. Filter changes go back to
// page 1, which needs a new fetch when another page is displayed.
func (s *Session) applyFilters() {
	if s.current == nil {
		return
	}
	if s.current.page > 1 {
		s.pager.Reset()
		s.startFetch(1)
		return
	}
	s.publish(render(s.current.raw, *s.current, s.engine, s.pager, s.opts), nil)
}

func (s *Session) startFetch(page int) {
	if s.fetchCancel != nil {
		s.fetchCancel()
	}
	s.seq++
	seq := s.seq
	ctx, cancel := context.WithCancel(s.ctx)
	s.fetchCancel = cancel

	raw, parsed, seed := s.searched, s.parsed, s.seed
	go func() {
		fr, err := load(ctx, s.backend, s.opts, parsed, seed, page)
		fr.raw = raw
		s.post(func() { s.fetched(seq, fr, err) })
	}()
}

func (s *Session) fetched(seq uint64, fr fetchResult, err error) {
	if seq != s.seq {
		logger.Debugf("session %s: dropping stale fetch %d (latest %d)", s.id, seq, s.seq)
		return
	}
	s.fetchCancel()
	s.fetchCancel = nil

	if err != nil {
		logger.Errorf("session %s: %v", s.id, err)
		s.current = nil
		s.pager.Reset()
		s.publish(emptyResults(fr.raw, fr.parsed, fr.seed, s.engine.State(), s.opts.PageSize), err)
		return
	}

	s.current = &fr
	s.engine.Invalidate()
	s.pager.SetTotal(fr.total)
	s.pager.Goto(fr.page)
	s.publish(render(fr.raw, fr, s.engine, s.pager, s.opts), nil)
}

func (s *Session) publish(res Results, err error) {
	v := View{Results: res, Seq: s.seq, Err: err}
	if err != nil {
		v.Error = err.Error()
	}
	for {
		select {
		case s.updates <- v:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}
