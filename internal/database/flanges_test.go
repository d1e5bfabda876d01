package database

import (
	"context"
	"testing"

	"github.com/flangeqc/flangeqc/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlange(workpackID uint, tag, size string) models.Flange {
	return models.Flange{
		WorkpackID: workpackID,
		JointSpec:  models.JointSpec{Tag: tag, Size: size},
	}
}

func TestFlangeCreateAndGet(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip keeps attributes and leaves sign-offs empty", func(t *testing.T) {
		db := newTestDB(t)
		ch := seedChain(t, NewHierarchyStore(db), "Acme")
		repo := NewFlangeRepository(db)

		created, err := repo.Create(ctx, newFlange(ch.workpack.ID, "FL-100", "2in"))
		require.NoError(t, err)

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "FL-100", got.Tag)
		assert.Equal(t, "2in", got.Size)
		assert.Equal(t, ch.workpack.ID, got.WorkpackID)
		assert.Equal(t, "WP-01", got.WorkpackName)
		assert.Equal(t, models.StagePending, got.Status)
		for _, st := range models.Stages() {
			if st.HasSignoff() {
				assert.True(t, got.Signoff(st).IsEmpty(), st)
			}
		}
		assert.Empty(t, got.Pass1)
		assert.Empty(t, got.RoundPass)
	})

	t.Run("stores numeric looking values as text", func(t *testing.T) {
		db := newTestDB(t)
		ch := seedChain(t, NewHierarchyStore(db), "Acme")
		repo := NewFlangeRepository(db)

		f := newFlange(ch.workpack.ID, "", `3/4"`)
		f.Rating = "150#"
		created, err := repo.Create(ctx, f)
		require.NoError(t, err)

		assert.Equal(t, "150#", created.Rating)
		assert.Equal(t, `3/4"`, created.Size)
		assert.Empty(t, created.Tag)
	})

	t.Run("create fails for an unknown workpack", func(t *testing.T) {
		repo := NewFlangeRepository(newTestDB(t))

		_, err := repo.Create(ctx, newFlange(5, "FL-1", "2in"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("get of a missing flange fails with not found", func(t *testing.T) {
		repo := NewFlangeRepository(newTestDB(t))

		_, err := repo.Get(ctx, 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFlangeUpdates(t *testing.T) {
	ctx := context.Background()

	t.Run("update overwrites every core column and keeps status", func(t *testing.T) {
		db := newTestDB(t)
		ch := seedChain(t, NewHierarchyStore(db), "Acme")
		repo := NewFlangeRepository(db)

		f := newFlange(ch.workpack.ID, "FL-100", "2in")
		f.Gasket = "SWG"
		f.Comments = "leaking"
		created, err := repo.Create(ctx, f)
		require.NoError(t, err)
		require.NoError(t, repo.SetStatus(ctx, created.ID, models.StageBreakout))

		err = repo.Update(ctx, created.ID, models.Flange{
			WorkpackID: ch.workpack.ID,
			JointSpec:  models.JointSpec{Tag: "FL-100A"},
			Status:     models.StageComplete,
		})
		require.NoError(t, err)

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "FL-100A", got.Tag)
		assert.Empty(t, got.Size)
		assert.Empty(t, got.Gasket)
		assert.Empty(t, got.Comments)
		assert.Equal(t, models.StageBreakout, got.Status)
	})

	t.Run("update can move a flange to another workpack but never to a missing one", func(t *testing.T) {
		db := newTestDB(t)
		hs := NewHierarchyStore(db)
		ch := seedChain(t, hs, "Acme")
		other, err := hs.CreateWorkpack(ctx, ch.project.ID, "WP-02")
		require.NoError(t, err)
		repo := NewFlangeRepository(db)

		created, err := repo.Create(ctx, newFlange(ch.workpack.ID, "FL-1", "2in"))
		require.NoError(t, err)

		require.NoError(t, repo.Update(ctx, created.ID, newFlange(other.ID, "FL-1", "2in")))
		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, other.ID, got.WorkpackID)

		err = repo.Update(ctx, created.ID, newFlange(999, "FL-1", "2in"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update of a missing flange fails with not found", func(t *testing.T) {
		db := newTestDB(t)
		ch := seedChain(t, NewHierarchyStore(db), "Acme")
		repo := NewFlangeRepository(db)

		err := repo.Update(ctx, 77, newFlange(ch.workpack.ID, "FL-1", "2in"))
		assert.ErrorIs(t, err, ErrNotFound)
		err = repo.UpdateDetails(ctx, 77, models.Flange{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("details overwrite sign-offs and passes but keep core only columns", func(t *testing.T) {
		db := newTestDB(t)
		ch := seedChain(t, NewHierarchyStore(db), "Acme")
		repo := NewFlangeRepository(db)

		f := newFlange(ch.workpack.ID, "FL-1", "2in")
		f.Material = "A105"
		f.Comments = "keep me"
		f.Lubricant = "Copaslip"
		created, err := repo.Create(ctx, f)
		require.NoError(t, err)

		err = repo.UpdateDetails(ctx, created.ID, models.Flange{
			JointSpec:    models.JointSpec{Tag: "FL-1", Size: "4in"},
			TorquePasses: models.TorquePasses{Pass1: "450", RoundPass: "yes"},
			Breakout:     models.SignoffEntry{Name: "J. Smith", Date: "2026-03-01"},
		})
		require.NoError(t, err)

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "4in", got.Size)
		assert.Equal(t, "450", got.Pass1)
		assert.Equal(t, "yes", got.RoundPass)
		assert.Equal(t, "J. Smith", got.Breakout.Name)
		assert.True(t, got.Breakout.Completed())
		assert.Empty(t, got.Lubricant)
		assert.Equal(t, "A105", got.Material)
		assert.Equal(t, "keep me", got.Comments)
		assert.Equal(t, models.StagePending, got.Status)
	})

	t.Run("tool cert path and status setters", func(t *testing.T) {
		db := newTestDB(t)
		ch := seedChain(t, NewHierarchyStore(db), "Acme")
		repo := NewFlangeRepository(db)

		created, err := repo.Create(ctx, newFlange(ch.workpack.ID, "FL-1", "2in"))
		require.NoError(t, err)

		require.NoError(t, repo.SetToolCertPath(ctx, created.ID, "/uploads/toolcert-1.pdf"))
		require.NoError(t, repo.SetStatus(ctx, created.ID, models.StageComplete))

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "/uploads/toolcert-1.pdf", got.ToolCerts)
		assert.Equal(t, models.StageComplete, got.Status)

		assert.ErrorIs(t, repo.SetToolCertPath(ctx, 500, "/x.pdf"), ErrNotFound)
		assert.ErrorIs(t, repo.SetStatus(ctx, 500, models.StageQC), ErrNotFound)
	})
}

func TestFlangeAdvanceStage(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	ch := seedChain(t, NewHierarchyStore(db), "Acme")
	repo := NewFlangeRepository(db)

	created, err := repo.Create(ctx, newFlange(ch.workpack.ID, "FL-1", "2in"))
	require.NoError(t, err)

	entry := models.SignoffEntry{Name: "A. Fitter", Signature: "sig", Date: "2026-03-02", Company: "Boltco"}

	t.Run("writes the slot and status when the observed status matches", func(t *testing.T) {
		err := repo.AdvanceStage(ctx, created.ID, models.StagePending, models.StageBreakout, entry, models.StageBreakout)
		require.NoError(t, err)

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, entry, got.Breakout)
		assert.Equal(t, models.StageBreakout, got.Status)
	})

	t.Run("refuses when the status moved on", func(t *testing.T) {
		err := repo.AdvanceStage(ctx, created.ID, models.StagePending, models.StageBreakout, entry, models.StageBreakout)
		assert.ErrorIs(t, err, ErrStatusChanged)
	})

	t.Run("reports missing flanges as not found", func(t *testing.T) {
		err := repo.AdvanceStage(ctx, 404, models.StagePending, models.StageBreakout, entry, models.StageBreakout)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("swaps all five pass columns when nothing changed underneath", func(t *testing.T) {
		passes := models.TorquePasses{Pass1: "100", Pass2: "200", Pass3: "300", RoundPass: "complete"}
		require.NoError(t, repo.SwapPasses(ctx, created.ID, models.TorquePasses{}, passes))

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, passes, got.TorquePasses)
	})

	t.Run("refuses a swap based on stale passes", func(t *testing.T) {
		// read before pass 3 landed
		stale := models.TorquePasses{Pass1: "100", Pass2: "200"}
		err := repo.SwapPasses(ctx, created.ID, stale, models.TorquePasses{Pass1: "150", Pass2: "200"})
		assert.ErrorIs(t, err, ErrPassesChanged)

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "100", got.Pass1)
		assert.Equal(t, "300", got.Pass3)
	})

	t.Run("swap on a missing flange is not found", func(t *testing.T) {
		err := repo.SwapPasses(ctx, 404, models.TorquePasses{}, models.TorquePasses{Pass1: "1"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestFlangeListing(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	hs := NewHierarchyStore(db)
	repo := NewFlangeRepository(db)

	a := seedChain(t, hs, "Acme")
	b := seedChain(t, hs, "Borealis")
	second, err := hs.CreateWorkpack(ctx, a.project.ID, "WP-02")
	require.NoError(t, err)

	f1, err := repo.Create(ctx, newFlange(a.workpack.ID, "A-1", "2in"))
	require.NoError(t, err)
	f2, err := repo.Create(ctx, newFlange(a.workpack.ID, "A-2", "2in"))
	require.NoError(t, err)
	f3, err := repo.Create(ctx, newFlange(second.ID, "A-3", "6in"))
	require.NoError(t, err)
	f4, err := repo.Create(ctx, newFlange(b.workpack.ID, "B-1", "8in"))
	require.NoError(t, err)

	ids := func(fs []models.Flange) []uint {
		out := make([]uint, 0, len(fs))
		for _, f := range fs {
			out = append(out, f.ID)
		}
		return out
	}

	t.Run("by workpack returns exactly that workpack's flanges", func(t *testing.T) {
		got, err := repo.ListByWorkpack(ctx, a.workpack.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{f1.ID, f2.ID}, ids(got))
		assert.Equal(t, "WP-01", got[0].WorkpackName)
	})

	t.Run("by project joins through workpacks", func(t *testing.T) {
		got, err := repo.ListByProject(ctx, a.project.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{f1.ID, f2.ID, f3.ID}, ids(got))
	})

	t.Run("all returns every flange", func(t *testing.T) {
		got, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []uint{f1.ID, f2.ID, f3.ID, f4.ID}, ids(got))
	})

	t.Run("flanges of a deleted workpack are only visible in the full list", func(t *testing.T) {
		require.NoError(t, hs.DeleteWorkpack(ctx, b.workpack.ID))

		byWorkpack, err := repo.ListByWorkpack(ctx, b.workpack.ID)
		require.NoError(t, err)
		assert.Empty(t, byWorkpack)

		byProject, err := repo.ListByProject(ctx, b.project.ID)
		require.NoError(t, err)
		assert.Empty(t, byProject)

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids(all), f4.ID)

		orphan, err := repo.Get(ctx, f4.ID)
		require.NoError(t, err)
		assert.Empty(t, orphan.WorkpackName)
		assert.Equal(t, b.workpack.ID, orphan.WorkpackID)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, f2.ID))

		_, err := repo.Get(ctx, f2.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, f2.ID), ErrNotFound)
	})
}
