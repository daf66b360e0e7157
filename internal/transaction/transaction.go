package transaction

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/se-sic/vara-feature-go/internal/consistency"
	"github.com/se-sic/vara-feature-go/internal/feature"
	"github.com/se-sic/vara-feature-go/internal/fmerr"
	"github.com/se-sic/vara-feature-go/internal/logging"
)

// Mode selects how a Transaction relates to the model it was opened on.
type Mode int

const (
	// ModifyMode borrows the live model and queues operations; Commit
	// replays the queue against the borrowed model and validates the
	// result, rolling back to a pre-replay snapshot on any failure.
	ModifyMode Mode = iota
	// CopyMode clones the model up front; every AddOp call applies
	// immediately to the clone, which is discarded on Abort or on a
	// failed Commit validation and returned to the caller on success.
	CopyMode
)

func (mode Mode) String() string {
	if mode == CopyMode {
		return "copy"
	}
	return "modify"
}

// Status is the transaction's lifecycle state.
type Status int

const (
	StatusOpen Status = iota
	StatusCommitted
	StatusAborted
)

// Transaction is a sequence of Ops applied to a FeatureModel under one of
// the two modes. Transactions are not safe for concurrent use.
type Transaction struct {
	id     string
	mode   Mode
	status Status

	model *feature.FeatureModel
	ops   []Op
}

// Begin opens a transaction against model. In CopyMode, model is cloned
// immediately and the original is left untouched until the clone is
// returned by a successful Commit.
func Begin(model *feature.FeatureModel, mode Mode) *Transaction {
	t := &Transaction{id: uuid.NewString(), mode: mode, status: StatusOpen}
	if mode == CopyMode {
		t.model = model.Clone()
	} else {
		t.model = model
	}
	return t
}

func (t *Transaction) ID() string     { return t.id }
func (t *Transaction) Mode() Mode     { return t.mode }
func (t *Transaction) Status() Status { return t.status }

// Model returns the transaction's working model: the borrowed model in
// ModifyMode (unmodified by queued-but-unreplayed ops) or the live clone in
// CopyMode (reflecting every AddOp applied so far).
func (t *Transaction) Model() *feature.FeatureModel { return t.model }

// AddOp records op. In CopyMode it is applied immediately to the clone; in
// ModifyMode it is only queued, and takes effect at Commit.
func (t *Transaction) AddOp(op Op) error {
	if t.status != StatusOpen {
		return fmerr.New(fmerr.Aborted, "transaction is not open")
	}
	t.ops = append(t.ops, op)
	if t.mode == CopyMode {
		if err := op.Apply(t.model); err != nil {
			return err
		}
	}
	return nil
}

// Commit validates and finalizes the transaction.
//
// In ModifyMode, Commit snapshots the borrowed model, replays the queued
// ops against it, and checks consistency.IsFeatureModelValid; any op
// failure or validation failure restores the pre-replay snapshot in place
// (the model the caller already holds a pointer to) and returns the error.
// On success it returns the same borrowed model.
//
// In CopyMode, ops already applied as they were queued; Commit only
// validates the result. On failure the clone is discarded and (nil, err) is
// returned; on success the clone is returned.
func (t *Transaction) Commit() (*feature.FeatureModel, error) {
	if t.status != StatusOpen {
		return nil, fmerr.New(fmerr.Aborted, "transaction is not open")
	}

	if t.mode == ModifyMode {
		snapshot := t.model.Clone()
		for _, op := range t.ops {
			if err := op.Apply(t.model); err != nil {
				t.model.RestoreFrom(snapshot)
				t.status = StatusAborted
				return nil, fmerr.Wrap(fmerr.Aborted, err, "transaction op failed, rolled back: "+op.String())
			}
		}
		if err := consistency.IsFeatureModelValid(t.model); err != nil {
			t.model.RestoreFrom(snapshot)
			t.status = StatusAborted
			return nil, err
		}
		t.status = StatusCommitted
		return t.model, nil
	}

	if err := consistency.IsFeatureModelValid(t.model); err != nil {
		t.status = StatusAborted
		return nil, err
	}
	t.status = StatusCommitted
	return t.model, nil
}

// Abort discards the transaction without touching the caller's model: in
// ModifyMode nothing was ever replayed, and in CopyMode only the (now
// discarded) clone was mutated.
func (t *Transaction) Abort(reason string) {
	t.status = StatusAborted
	t.model = nil
	logging.For(logging.CategoryTransaction).Info("transaction aborted",
		zap.String("id", t.id), zap.String("mode", t.mode.String()), zap.String("reason", reason))
}

// Finalize is the destruction-discipline backstop: call it via defer right
// after Begin. If the transaction is still open when it runs, CopyMode
// treats that as a programming error (logged, since Go has no destructor to
// panic a caller out of); ModifyMode attempts a best-effort commit, since an
// abandoned queue of modify-mode ops is, per the queued-replay design,
// cheap to just try applying.
func (t *Transaction) Finalize() {
	if t.status != StatusOpen {
		return
	}
	log := logging.For(logging.CategoryTransaction)
	if t.mode == CopyMode {
		log.Error("copy-mode transaction destroyed without Commit or Abort",
			zap.String("id", t.id))
		t.status = StatusAborted
		t.model = nil
		return
	}
	log.Warn("modify-mode transaction destroyed with uncommitted work, attempting best-effort commit",
		zap.String("id", t.id), zap.Int("pending_ops", len(t.ops)))
	if _, err := t.Commit(); err != nil {
		log.Error("best-effort commit on finalize failed", zap.String("id", t.id), zap.Error(err))
	}
}
