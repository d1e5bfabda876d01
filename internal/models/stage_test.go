package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageOrder(t *testing.T) {
	next, ok := StagePending.Next()
	assert.True(t, ok)
	assert.Equal(t, StageBreakout, next)

	next, ok = StageClient.Next()
	assert.True(t, ok)
	assert.Equal(t, StageComplete, next)

	_, ok = StageComplete.Next()
	assert.False(t, ok)

	_, ok = Stage("bogus").Next()
	assert.False(t, ok)
}

func TestParseStage(t *testing.T) {
	st, err := ParseStage("qc")
	assert.NoError(t, err)
	assert.Equal(t, StageQC, st)

	_, err = ParseStage("QC")
	assert.Error(t, err)
	_, err = ParseStage("")
	assert.Error(t, err)
}

func TestSignoffSlots(t *testing.T) {
	var f Flange
	for _, st := range Stages() {
		if st.HasSignoff() {
			assert.NotNil(t, f.Signoff(st), st)
		} else {
			assert.Nil(t, f.Signoff(st), st)
		}
	}

	f.Signoff(StageQC).Name = "inspector"
	assert.Equal(t, "inspector", f.QC.Name)
}

func TestSignoffEntry(t *testing.T) {
	assert.True(t, SignoffEntry{Notes: "  "}.IsEmpty())
	assert.False(t, SignoffEntry{Company: "Boltco"}.IsEmpty())
	assert.False(t, SignoffEntry{Name: "J. Smith"}.Completed())
	assert.True(t, SignoffEntry{Name: "J. Smith", Date: "2026-03-01"}.Completed())
}
