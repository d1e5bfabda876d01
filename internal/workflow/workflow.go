// Package workflow moves a flange through its sign-off stages and keeps the
// torque-pass bookkeeping.
//
// Advance is the normal way to change a flange's status: it only allows
// staying on the current stage (re-submitting a corrected entry) or moving
// to the next one. UpdateStatus is the administrative override and skips
// every check; it is logged and counted separately.
package workflow

import (
	"context"
	"strconv"
	"strings"

	"github.com/flangeqc/flangeqc/internal/database"
	"github.com/flangeqc/flangeqc/internal/metrics"
	"github.com/flangeqc/flangeqc/internal/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidTransition = errors.New("invalid stage transition")
	ErrInvalidStage      = errors.New("unknown stage")
	ErrInvalidPass       = errors.New("pass number must be 1, 2 or 3")
	ErrRoundIncomplete   = errors.New("round pass is not complete")
	ErrPassConflict      = errors.New("torque passes kept changing, try again")
)

// swapAttempts bounds the re-read loop of the pass updates.
const swapAttempts = 3

// RoundComplete is written to roundpass once every required pass is recorded.
const RoundComplete = "complete"

// FlangeStore is the slice of the flange repository the workflow needs.
type FlangeStore interface {
	Get(ctx context.Context, id uint) (models.Flange, error)
	AdvanceStage(ctx context.Context, id uint, observed, stage models.Stage, entry models.SignoffEntry, status models.Stage) error
	SetStatus(ctx context.Context, id uint, status models.Stage) error
	SwapPasses(ctx context.Context, id uint, observed, passes models.TorquePasses) error
}

type SignoffWorkflow struct {
	store          FlangeStore
	requiredPasses int
	log            *logrus.Logger
}

func New(store FlangeStore, requiredPasses int, log *logrus.Logger) *SignoffWorkflow {
	if requiredPasses < 1 || requiredPasses > 3 {
		requiredPasses = 3
	}
	return &SignoffWorkflow{store: store, requiredPasses: requiredPasses, log: log}
}

// CheckTransition validates a move from current to target and returns the
// status to store. A non-empty client entry completes the flange.
func CheckTransition(current, target models.Stage, entry models.SignoffEntry) (models.Stage, error) {
	if !target.HasSignoff() {
		return "", errors.Wrapf(ErrInvalidTransition, "stage %q takes no sign-off", target)
	}

	completes := target == models.StageClient && !entry.IsEmpty()

	if current == models.StageComplete {
		// correcting the client attestation of a finished flange
		if completes {
			return models.StageComplete, nil
		}
		return "", errors.Wrapf(ErrInvalidTransition, "flange is complete, cannot go back to %q", target)
	}

	next, _ := current.Next()
	if target != current && target != next {
		return "", errors.Wrapf(ErrInvalidTransition, "cannot move from %q to %q", current, target)
	}

	if completes {
		return models.StageComplete, nil
	}
	return target, nil
}

func (w *SignoffWorkflow) Advance(ctx context.Context, id uint, target models.Stage, entry models.SignoffEntry) (models.Flange, error) {
	f, err := w.store.Get(ctx, id)
	if err != nil {
		return models.Flange{}, err
	}

	current := f.CurrentStage()
	status, err := CheckTransition(current, target, entry)
	if err != nil {
		metrics.ObserveTransition(string(target), metrics.ResultRejected)
		w.log.WithFields(logrus.Fields{
			"flange_id": id,
			"status":    current,
			"stage":     target,
		}).Info("rejected sign-off transition")
		return models.Flange{}, err
	}

	err = w.store.AdvanceStage(ctx, id, f.Status, target, entry, status)
	if errors.Is(err, database.ErrStatusChanged) {
		metrics.ObserveTransition(string(target), metrics.ResultRejected)
		return models.Flange{}, errors.Wrapf(ErrInvalidTransition, "flange %d changed stage meanwhile", id)
	}
	if err != nil {
		return models.Flange{}, err
	}

	metrics.ObserveTransition(string(target), metrics.ResultApplied)
	w.log.WithFields(logrus.Fields{
		"flange_id": id,
		"stage":     target,
		"status":    status,
	}).Info("flange signed off")

	return w.store.Get(ctx, id)
}

// UpdateStatus sets status unconditionally. Administrative correction only.
func (w *SignoffWorkflow) UpdateStatus(ctx context.Context, id uint, status models.Stage) error {
	if !status.Valid() {
		return errors.Wrapf(ErrInvalidStage, "%q", status)
	}

	f, err := w.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := w.store.SetStatus(ctx, id, status); err != nil {
		return err
	}

	metrics.ObserveTransition(string(status), metrics.ResultOverride)
	w.log.WithFields(logrus.Fields{
		"flange_id": id,
		"from":      f.CurrentStage(),
		"to":        status,
	}).Warn("administrative status override")
	return nil
}

// RoundSatisfied reports whether passes 1..RequiredPasses are all recorded.
func (w *SignoffWorkflow) RoundSatisfied(p models.TorquePasses) bool {
	for n := 1; n <= w.requiredPasses; n++ {
		if strings.TrimSpace(p.Pass(n)) == "" {
			return false
		}
	}
	return true
}

// RecordPass stores the torque value of pass n and re-derives roundpass.
// Clearing a pass that breaks the round also clears finalpass.
func (w *SignoffWorkflow) RecordPass(ctx context.Context, id uint, n int, value string) (models.Flange, error) {
	if n < 1 || n > 3 {
		return models.Flange{}, errors.Wrapf(ErrInvalidPass, "got %d", n)
	}
	value = strings.TrimSpace(value)

	passes, err := w.swapPasses(ctx, id, func(p models.TorquePasses) (models.TorquePasses, error) {
		p.SetPass(n, value)
		if w.RoundSatisfied(p) {
			p.RoundPass = RoundComplete
		} else {
			p.RoundPass = ""
			p.FinalPass = ""
		}
		return p, nil
	})
	if err != nil {
		return models.Flange{}, err
	}

	metrics.ObservePass(strconv.Itoa(n))
	w.log.WithFields(logrus.Fields{
		"flange_id": id,
		"pass":      n,
		"roundpass": passes.RoundPass,
	}).Debug("torque pass recorded")

	return w.store.Get(ctx, id)
}

// RecordFinalPass stores the final verification value once the round is done.
func (w *SignoffWorkflow) RecordFinalPass(ctx context.Context, id uint, value string) (models.Flange, error) {
	value = strings.TrimSpace(value)

	_, err := w.swapPasses(ctx, id, func(p models.TorquePasses) (models.TorquePasses, error) {
		if !w.RoundSatisfied(p) {
			return p, errors.Wrapf(ErrRoundIncomplete, "flange %d needs %d passes", id, w.requiredPasses)
		}
		p.RoundPass = RoundComplete
		p.FinalPass = value
		return p, nil
	})
	if err != nil {
		return models.Flange{}, err
	}
	metrics.ObservePass("final")

	return w.store.Get(ctx, id)
}

// swapPasses applies change to the stored passes with a compare-and-set,
// re-reading when another writer got there first.
func (w *SignoffWorkflow) swapPasses(
	ctx context.Context,
	id uint,
	change func(models.TorquePasses) (models.TorquePasses, error),
) (models.TorquePasses, error) {
	for attempt := 1; attempt <= swapAttempts; attempt++ {
		f, err := w.store.Get(ctx, id)
		if err != nil {
			return models.TorquePasses{}, err
		}

		next, err := change(f.TorquePasses)
		if err != nil {
			return models.TorquePasses{}, err
		}

		err = w.store.SwapPasses(ctx, id, f.TorquePasses, next)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, database.ErrPassesChanged) {
			return models.TorquePasses{}, err
		}
		w.log.WithFields(logrus.Fields{"flange_id": id, "attempt": attempt}).Debug("torque passes changed, retrying")
	}
	return models.TorquePasses{}, errors.Wrapf(ErrPassConflict, "flange %d", id)
}
