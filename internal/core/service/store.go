package service

import (
	"context"
	"imgshrink/internal/core/domain"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// session is the application state of one chat. Every user action starts a new generation; work started under an
// older generation must not publish its outcome.
type session struct {
	mu      sync.Mutex
	present sync.Mutex

	source     *domain.SourceImage
	result     *domain.CompressedResult
	quality    domain.Quality
	generation uint64
	loading    uint64 // generation of a source still being fetched, 0 if none
	cancel     context.CancelFunc
	touched    time.Time
}

// beginLoad supersedes any in-flight request to load a new source. The returned context is cancelled when the next
// request begins or the request finishes. Until load or finish is called for the returned generation, quality
// changes do not supersede it.
func (s *session) beginLoad(ctx context.Context) (uint64, context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen, reqCtx := s.beginLocked(ctx)
	s.loading = gen

	return gen, reqCtx
}

// beginWithQuality supersedes any in-flight request for a quality change, returning the source to recompress, if
// any. While a source is loading only the quality is stored and pending is true; the load picks it up.
func (s *session) beginWithQuality(ctx context.Context, quality domain.Quality) (gen uint64, reqCtx context.Context,
	src *domain.SourceImage, pending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quality = quality
	if s.loading != 0 && s.loading == s.generation {
		s.touched = time.Now()
		return 0, nil, nil, true
	}

	gen, reqCtx = s.beginLocked(ctx)

	return gen, reqCtx, s.source, false
}

func (s *session) beginLocked(ctx context.Context) (uint64, context.Context) {
	if s.cancel != nil {
		s.cancel()
	}

	reqCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.loading = 0
	s.generation++
	s.result = nil
	s.touched = time.Now()

	return s.generation, reqCtx
}

// finish releases the context of generation gen if it is still the latest request.
func (s *session) finish(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen == s.loading {
		s.loading = 0
	}

	if gen == s.generation && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *session) isCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return gen == s.generation
}

// load replaces the source image and returns the quality to compress it at.
func (s *session) load(gen uint64, src domain.SourceImage) (domain.Quality, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return 0, false
	}

	s.loading = 0
	s.source = &src

	return s.quality, true
}

func (s *session) commit(gen uint64, res domain.CompressedResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}

	s.result = &res
	s.touched = time.Now()

	return true
}

// publish commits res and runs show while no other generation can be shown. It reports false if gen is stale.
func (s *session) publish(gen uint64, res domain.CompressedResult, show func() error) (bool, error) {
	s.present.Lock()
	defer s.present.Unlock()

	if !s.commit(gen, res) {
		return false, nil
	}

	return true, show()
}

func (s *session) snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.Snapshot{
		Source:     s.source,
		Result:     s.result,
		Quality:    s.quality,
		InProgress: s.cancel != nil,
	}
}

func (s *session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cancel == nil && s.touched.Before(cutoff)
}

// SessionStore holds the sessions of all chats and drops those idle for longer than its TTL.
type SessionStore struct {
	sessions       map[int64]*session
	mutex          *sync.Mutex
	ttl            time.Duration
	defaultQuality domain.Quality
}

func NewSessionStore(ctx context.Context, ttl time.Duration, defaultQuality domain.Quality) *SessionStore {
	st := &SessionStore{
		sessions:       make(map[int64]*session),
		mutex:          &sync.Mutex{},
		ttl:            ttl,
		defaultQuality: defaultQuality,
	}

	if ttl > 0 {
		go st.EvictIdle(ctx)
	}

	return st
}

func (st *SessionStore) get(chatID int64) *session {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	s, ok := st.sessions[chatID]
	if !ok {
		s = &session{quality: st.defaultQuality, touched: time.Now()}
		st.sessions[chatID] = s
	}

	return s
}

func (st *SessionStore) lookup(chatID int64) (*session, bool) {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	s, ok := st.sessions[chatID]

	return s, ok
}

func (st *SessionStore) Len() int {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	return len(st.sessions)
}

// EvictIdle periodically removes sessions without activity for the store's TTL until ctx is done.
func (st *SessionStore) EvictIdle(ctx context.Context) {
	ticker := time.NewTicker(st.ttl)
	defer ticker.Stop()

	for {
		log.Debug().Dur("ttl", st.ttl).Msg("running session eviction timer")
		select {
		case now := <-ticker.C:
			if n := st.evict(now.Add(-st.ttl)); n > 0 {
				log.Debug().Int("evicted", n).Msg("evicted idle sessions")
			}
		case <-ctx.Done():
			log.Debug().Msg("stopping session eviction")
			return
		}
	}
}

func (st *SessionStore) evict(cutoff time.Time) int {
	st.mutex.Lock()
	defer st.mutex.Unlock()

	evicted := 0
	for chatID, s := range st.sessions {
		if s.idleSince(cutoff) {
			delete(st.sessions, chatID)
			evicted++
		}
	}

	return evicted
}
