package app

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/semaphore"

	"tabula/domain/core"
	"tabula/domain/dataset"
	"tabula/domain/ingest"
	"tabula/ports"
)

// maxConcurrentFinalizes bounds the number of finalize passes running at
// once across all sessions; finalize is the expensive O(rows x columns)
// pass and uploads can be large.
const maxConcurrentFinalizes = 4

// Session is one interactive ingestion over a single uploaded document. The
// raw document is parsed once and the rows cached, so configuration edits
// re-run the structural resolver and profiler cheaply. Finalize re-parses
// the document without truncation, keeping the two paths independent.
//
// A session assumes single-writer, single-reader sequencing per ingestion;
// the service-level mutex only protects the session registry itself.
type Session struct {
	ID       core.SessionID
	Filename string

	raw          []byte
	rows         [][]string
	splitter     ports.RowSplitter
	limits       ingest.Limits
	previewLimit int

	mu        sync.Mutex
	finalized *dataset.Dataset
}

// Service manages ingestion sessions and enforces the shared finalize bound.
type Service struct {
	limits       ingest.Limits
	previewLimit int
	repo         ports.DatasetRepository // optional
	finsem       *semaphore.Weighted
	mu           sync.RWMutex
	byID         map[core.SessionID]*Session
	dsIndex      map[core.DatasetID]*dataset.Dataset
}

// NewService creates an ingestion service. repo may be nil; finalized
// datasets are then kept in memory only.
func NewService(limits ingest.Limits, repo ports.DatasetRepository) *Service {
	return &Service{
		limits:  limits,
		repo:    repo,
		finsem:  semaphore.NewWeighted(maxConcurrentFinalizes),
		byID:    make(map[core.SessionID]*Session),
		dsIndex: make(map[core.DatasetID]*dataset.Dataset),
	}
}

// SetDefaultPreviewLimit sets the preview window size applied to sessions
// whose configuration does not specify one. Zero keeps the built-in default.
func (s *Service) SetDefaultPreviewLimit(n int) {
	s.previewLimit = n
}

// Open parses the uploaded document once through the splitter and registers
// a new session around the cached rows.
func (s *Service) Open(ctx context.Context, filename string, raw []byte, splitter ports.RowSplitter) (*Session, error) {
	rows, err := splitter.Split(ctx, raw)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, core.ErrEmptyInput
	}

	session := &Session{
		ID:           core.SessionID(core.NewID()),
		Filename:     filename,
		raw:          raw,
		rows:         rows,
		splitter:     splitter,
		limits:       s.limits,
		previewLimit: s.previewLimit,
	}

	s.mu.Lock()
	s.byID[session.ID] = session
	s.mu.Unlock()

	log.Printf("[Ingest] session %s opened for %s (%d raw rows, %d bytes)",
		session.ID, filename, len(rows), len(raw))
	return session, nil
}

// Get returns a registered session.
func (s *Service) Get(id core.SessionID) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.byID[id]
	return session, ok
}

// Close drops a session from the registry.
func (s *Service) Close(id core.SessionID) {
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
}

// Dataset returns a finalized dataset by ID, preferring the in-memory index
// and falling back to the repository when wired.
func (s *Service) Dataset(ctx context.Context, id core.DatasetID) (*dataset.Dataset, error) {
	s.mu.RLock()
	ds, ok := s.dsIndex[id]
	s.mu.RUnlock()
	if ok {
		return ds, nil
	}
	if s.repo != nil {
		return s.repo.GetByID(ctx, id)
	}
	return nil, core.ErrNoDatasetYet
}

// Preview generates the interactive preview for the current configuration.
// Idempotent and side-effect free; safe to re-run on every config edit.
func (sess *Session) Preview(cfg ingest.Config) (*ingest.PreviewResult, error) {
	if cfg.PreviewLimit == 0 && sess.previewLimit > 0 {
		cfg.PreviewLimit = sess.previewLimit
	}
	return ingest.BuildPreview(sess.rows, int64(len(sess.raw)), cfg, sess.limits)
}

// Finalize runs the full pipeline over a fresh, untruncated parse of the
// document and registers the resulting immutable dataset. A previously
// finalized dataset is replaced wholesale.
func (s *Service) Finalize(ctx context.Context, sess *Session, cfg ingest.Config) (*dataset.Dataset, error) {
	if err := s.finsem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.finsem.Release(1)

	rows, err := sess.splitter.Split(ctx, sess.raw)
	if err != nil {
		return nil, err
	}

	ds, err := dataset.Build(rows, int64(len(sess.raw)), cfg, sess.limits)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	sess.finalized = ds
	sess.mu.Unlock()

	s.mu.Lock()
	s.dsIndex[ds.ID] = ds
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.Save(ctx, ds); err != nil {
			// Persistence is best-effort; the in-memory snapshot is already
			// the artifact of record for this session.
			log.Printf("[Ingest] failed to persist dataset %s: %v", ds.ID, err)
		}
	}

	log.Printf("[Ingest] session %s finalized dataset %s (%d samples, %d features, %s target, %d dropped)",
		sess.ID, ds.ID, ds.NumSamples, ds.NumFeatures, ds.Type, ds.Summary.DroppedRowCount)
	return ds, nil
}

// Finalized returns the session's current dataset, if any.
func (sess *Session) Finalized() (*dataset.Dataset, bool) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.finalized, sess.finalized != nil
}
