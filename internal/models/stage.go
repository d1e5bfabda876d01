package models

import "github.com/pkg/errors"

// Stage is the sign-off status of a flange.
type Stage string

const (
	StagePending   Stage = "pending"
	StageBreakout  Stage = "breakout"
	StageAssembled Stage = "assembled"
	StageTightened Stage = "tightened"
	StageQC        Stage = "qc"
	StageClient    Stage = "client"
	StageComplete  Stage = "complete"
)

// stageOrder is the only legal forward order; complete is terminal.
var stageOrder = []Stage{
	StagePending,
	StageBreakout,
	StageAssembled,
	StageTightened,
	StageQC,
	StageClient,
	StageComplete,
}

func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if !st.Valid() {
		return "", errors.Errorf("unknown stage %q", s)
	}
	return st, nil
}

func (s Stage) Valid() bool {
	return s.index() >= 0
}

func (s Stage) index() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the immediate successor. ok is false for complete and for
// unknown stages.
func (s Stage) Next() (Stage, bool) {
	i := s.index()
	if i < 0 || i == len(stageOrder)-1 {
		return "", false
	}
	return stageOrder[i+1], true
}

// HasSignoff reports whether the stage owns a SignoffEntry slot on the flange.
func (s Stage) HasSignoff() bool {
	switch s {
	case StageBreakout, StageAssembled, StageTightened, StageQC, StageClient:
		return true
	}
	return false
}

func (s Stage) String() string {
	return string(s)
}
