package app

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"tabula/adapters/csvsplit"
	"tabula/domain/core"
	"tabula/domain/dataset"
	"tabula/domain/ingest"
	"tabula/domain/policy"
	"tabula/internal/testkit"
)

// memoryRepo is a map-backed repository stub.
type memoryRepo struct {
	saved map[core.DatasetID]*dataset.Dataset
	fail  bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{saved: make(map[core.DatasetID]*dataset.Dataset)}
}

func (r *memoryRepo) Save(ctx context.Context, ds *dataset.Dataset) error {
	if r.fail {
		return errors.New("storage unavailable")
	}
	r.saved[ds.ID] = ds
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id core.DatasetID) (*dataset.Dataset, error) {
	ds, ok := r.saved[id]
	if !ok {
		return nil, core.ErrNoDatasetYet
	}
	return ds, nil
}

func (r *memoryRepo) ListRecent(ctx context.Context, limit int) ([]*dataset.Dataset, error) {
	return nil, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id core.DatasetID) error {
	delete(r.saved, id)
	return nil
}

func openSession(t *testing.T, svc *Service, text string) *Session {
	t.Helper()
	sess, err := svc.Open(context.Background(), "data.csv", []byte(text), csvsplit.NewSplitter())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return sess
}

// TestOpenAndPreview verifies a session parses once and previews repeatedly
// with identical results.
func TestOpenAndPreview(t *testing.T) {
	svc := NewService(ingest.Limits{}, nil)
	sess := openSession(t, svc, testkit.CSV(testkit.MessyTable()...))

	first, err := sess.Preview(ingest.Config{})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	second, err := sess.Preview(ingest.Config{})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical previews for identical config")
	}

	if first.Target != "label" {
		t.Errorf("Expected default target label, got %s", first.Target)
	}
	if got, _ := svc.Get(sess.ID); got != sess {
		t.Error("Expected session registered under its ID")
	}
}

// TestServicePreviewLimitDefault verifies the service-level default preview
// limit applies when a configuration does not specify one.
func TestServicePreviewLimitDefault(t *testing.T) {
	svc := NewService(ingest.Limits{}, nil)
	svc.SetDefaultPreviewLimit(2)
	sess := openSession(t, svc, testkit.CSV(testkit.MessyTable()...))

	preview, err := sess.Preview(ingest.Config{})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if len(preview.Window) != 3 { // header plus two data rows
		t.Errorf("Expected a 3-row window, got %d", len(preview.Window))
	}

	explicit, err := sess.Preview(ingest.Config{PreviewLimit: 4})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if len(explicit.Window) != 5 {
		t.Errorf("Expected the explicit limit to win, got %d rows", len(explicit.Window))
	}
}

// TestOpenEmptyDocument verifies an empty upload is rejected at open time.
func TestOpenEmptyDocument(t *testing.T) {
	svc := NewService(ingest.Limits{}, nil)
	_, err := svc.Open(context.Background(), "empty.csv", nil, csvsplit.NewSplitter())
	if !errors.Is(err, core.ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
}

// TestFinalizeRegistersDataset verifies finalize produces a dataset that is
// retrievable by ID and recorded on the session.
func TestFinalizeRegistersDataset(t *testing.T) {
	svc := NewService(ingest.Limits{}, nil)
	sess := openSession(t, svc, testkit.CSV(testkit.MessyTable()...))

	cfg := ingest.Config{GlobalStrategy: policy.Mode()}
	ds, err := svc.Finalize(context.Background(), sess, cfg)
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	got, err := svc.Dataset(context.Background(), ds.ID)
	if err != nil || got != ds {
		t.Errorf("Expected dataset retrievable by ID, got %v (%v)", got, err)
	}

	onSession, ok := sess.Finalized()
	if !ok || onSession != ds {
		t.Error("Expected dataset recorded on the session")
	}
}

// TestFinalizeReplacesDataset verifies re-confirming replaces the session's
// dataset wholesale.
func TestFinalizeReplacesDataset(t *testing.T) {
	svc := NewService(ingest.Limits{}, nil)
	sess := openSession(t, svc, testkit.CSV(testkit.MessyTable()...))

	first, err := svc.Finalize(context.Background(), sess, ingest.Config{GlobalStrategy: policy.Zero()})
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	second, err := svc.Finalize(context.Background(), sess, ingest.Config{GlobalStrategy: policy.DropRow()})
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	if first.ID == second.ID {
		t.Error("Expected a fresh dataset identity per finalize")
	}
	current, _ := sess.Finalized()
	if current != second {
		t.Error("Expected the latest dataset to replace the previous one")
	}
	if second.Summary.DroppedRowCount == 0 {
		t.Error("Expected drop-row finalize to drop the gapped rows")
	}
}

// TestFinalizeRefusedOnLimits verifies preview renders with violations
// attached while finalize refuses outright under the same limits.
func TestFinalizeRefusedOnLimits(t *testing.T) {
	svc := NewService(ingest.Limits{MaxRows: 3}, nil)
	sess := openSession(t, svc, testkit.CSV(testkit.MessyTable()...))

	preview, err := sess.Preview(ingest.Config{})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if len(preview.Violations) == 0 {
		t.Fatal("Expected preview to carry limit violations")
	}

	_, err = svc.Finalize(context.Background(), sess, ingest.Config{})
	if !errors.Is(err, core.ErrLimitExceeded) {
		t.Errorf("Expected ErrLimitExceeded from finalize, got %v", err)
	}
}

// TestFinalizePersistsBestEffort verifies datasets reach the repository when
// wired and that persistence failures do not fail the finalize.
func TestFinalizePersistsBestEffort(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(ingest.Limits{}, repo)
	sess := openSession(t, svc, testkit.CSV(testkit.MessyTable()...))

	ds, err := svc.Finalize(context.Background(), sess, ingest.Config{})
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if _, ok := repo.saved[ds.ID]; !ok {
		t.Error("Expected dataset persisted to the repository")
	}

	repo.fail = true
	if _, err := svc.Finalize(context.Background(), sess, ingest.Config{}); err != nil {
		t.Errorf("Persistence failure must not fail finalize, got %v", err)
	}
}

// TestDatasetFallsBackToRepository verifies lookup consults the repository
// when the in-memory index misses.
func TestDatasetFallsBackToRepository(t *testing.T) {
	repo := newMemoryRepo()
	stored := &dataset.Dataset{ID: core.DatasetID("ds-from-store")}
	repo.saved[stored.ID] = stored

	svc := NewService(ingest.Limits{}, repo)
	got, err := svc.Dataset(context.Background(), stored.ID)
	if err != nil || got != stored {
		t.Errorf("Expected repository fallback, got %v (%v)", got, err)
	}

	bare := NewService(ingest.Limits{}, nil)
	_, err = bare.Dataset(context.Background(), core.DatasetID("missing"))
	if !errors.Is(err, core.ErrNoDatasetYet) {
		t.Errorf("Expected ErrNoDatasetYet without a repository, got %v", err)
	}
}

// TestCloseSession verifies closed sessions disappear from the registry.
func TestCloseSession(t *testing.T) {
	svc := NewService(ingest.Limits{}, nil)
	sess := openSession(t, svc, testkit.CSV(testkit.MessyTable()...))

	svc.Close(sess.ID)
	if _, ok := svc.Get(sess.ID); ok {
		t.Error("Expected session removed after close")
	}
}
