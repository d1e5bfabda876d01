package database

import (
	"context"
	"fmt"

	"github.com/flangeqc/flangeqc/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// columns written by the plain edit form (PUT /flanges/:id)
	coreColumns = []string{
		"flange_no", "tag", "isometric", "pid", "rating", "type", "gasket",
		"material", "size", "bolt_size", "k_factor", "yield_strength", "torque",
		"comments", "workpack_id",
	}

	// columns written by the detail sheet (PUT /flanges/:id/details)
	detailColumns = []string{
		"flange_no", "tag", "system", "pid", "isometric", "facility",
		"torque_or_tension", "equipment_manufacturer", "equipment_quantity", "wrench_size", "toolcerts",
		"size", "type", "rating", "gasket", "stud_spec", "bolt_size", "nut_spec", "nut_size", "washer", "lubricant", "torque",
		"pass1", "pass2", "pass3", "roundpass", "finalpass",
		"breakout_name", "breakout_signature", "breakout_date", "breakout_company", "breakout_notes",
		"assembled_name", "assembled_signature", "assembled_date", "assembled_company", "assembled_notes",
		"tightened_name", "tightened_signature", "tightened_date", "tightened_company", "tightened_notes",
		"qc_name", "qc_signature", "qc_date", "qc_company", "qc_notes",
		"client_name", "client_signature", "client_date", "client_company", "client_notes",
	}
)

// ErrStatusChanged is returned by AdvanceStage when the row no longer holds
// the status the caller based its decision on.
var ErrStatusChanged = errors.New("flange status changed")

// ErrPassesChanged is the SwapPasses counterpart of ErrStatusChanged.
var ErrPassesChanged = errors.New("torque passes changed")

// FlangeRepository owns flange rows. Both update surfaces overwrite every
// column they cover: fields missing from the input are stored empty.
// Neither of them writes status; that goes through the sign-off workflow.
type FlangeRepository struct {
	db *gorm.DB
}

func NewFlangeRepository(db *DB) *FlangeRepository {
	return &FlangeRepository{db: db.DB}
}

func (r *FlangeRepository) Create(ctx context.Context, f models.Flange) (models.Flange, error) {
	db := r.db.WithContext(ctx)
	if err := mustExist[models.Workpack](db, "workpack", f.WorkpackID); err != nil {
		return models.Flange{}, err
	}

	if f.Status == "" {
		f.Status = models.StagePending
	}
	f.ID = 0
	f.WorkpackName = ""

	if err := db.Create(&f).Error; err != nil {
		return models.Flange{}, translate("create flange", err)
	}
	return r.Get(ctx, f.ID)
}

func (r *FlangeRepository) Update(ctx context.Context, id uint, f models.Flange) error {
	db := r.db.WithContext(ctx)
	if err := mustExist[models.Workpack](db, "workpack", f.WorkpackID); err != nil {
		return err
	}
	return r.overwrite(db, "update flange", id, coreColumns, &f)
}

func (r *FlangeRepository) UpdateDetails(ctx context.Context, id uint, f models.Flange) error {
	return r.overwrite(r.db.WithContext(ctx), "update flange details", id, detailColumns, &f)
}

func (r *FlangeRepository) overwrite(db *gorm.DB, op string, id uint, columns []string, f *models.Flange) error {
	res := db.Model(&models.Flange{ID: id}).Select(columns).Updates(f)
	if res.Error != nil {
		return translate(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "flange %d", id)
	}
	return nil
}

func (r *FlangeRepository) withWorkpack(ctx context.Context, join string) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Flange{}).
		Select("flanges.*, workpacks.name AS workpack_name").
		Joins(join + " JOIN workpacks ON workpacks.id = flanges.workpack_id")
}

func (r *FlangeRepository) Get(ctx context.Context, id uint) (models.Flange, error) {
	var f models.Flange
	err := r.withWorkpack(ctx, "LEFT").
		Where("flanges.id = ?", id).
		Take(&f).Error
	if err != nil {
		return models.Flange{}, translate(fmt.Sprintf("get flange %d", id), err)
	}
	return f, nil
}

// ListByWorkpack inner-joins the workpack: flanges of a deleted workpack are
// not returned here but still show up in ListAll.
func (r *FlangeRepository) ListByWorkpack(ctx context.Context, workpackID uint) ([]models.Flange, error) {
	flanges := []models.Flange{}
	err := r.withWorkpack(ctx, "INNER").
		Where("flanges.workpack_id = ?", workpackID).
		Order("flanges.id asc").
		Find(&flanges).Error
	if err != nil {
		return nil, storageErr("list flanges by workpack", err)
	}
	return flanges, nil
}

func (r *FlangeRepository) ListByProject(ctx context.Context, projectID uint) ([]models.Flange, error) {
	flanges := []models.Flange{}
	err := r.withWorkpack(ctx, "INNER").
		Where("workpacks.project_id = ?", projectID).
		Order("flanges.id asc").
		Find(&flanges).Error
	if err != nil {
		return nil, storageErr("list flanges by project", err)
	}
	return flanges, nil
}

func (r *FlangeRepository) ListAll(ctx context.Context) ([]models.Flange, error) {
	flanges := []models.Flange{}
	err := r.withWorkpack(ctx, "LEFT").
		Order("flanges.id asc").
		Find(&flanges).Error
	if err != nil {
		return nil, storageErr("list flanges", err)
	}
	return flanges, nil
}

func (r *FlangeRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID[models.Flange](r.db.WithContext(ctx), "flange", id)
}

func (r *FlangeRepository) SetToolCertPath(ctx context.Context, id uint, path string) error {
	return r.updateColumns(ctx, "set toolcert path", id, map[string]any{"toolcerts": path})
}

// SetStatus overwrites status without looking at the current one.
func (r *FlangeRepository) SetStatus(ctx context.Context, id uint, status models.Stage) error {
	return r.updateColumns(ctx, "set flange status", id, map[string]any{"status": string(status)})
}

// SwapPasses writes passes only while the row still holds observed, so two
// technicians recording different passes at once cannot drop each other's value.
func (r *FlangeRepository) SwapPasses(ctx context.Context, id uint, observed, passes models.TorquePasses) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Flange{}).
		Where("id = ?", id).
		Where("COALESCE(pass1, '') = ? AND COALESCE(pass2, '') = ? AND COALESCE(pass3, '') = ?",
			observed.Pass1, observed.Pass2, observed.Pass3).
		Where("COALESCE(roundpass, '') = ? AND COALESCE(finalpass, '') = ?",
			observed.RoundPass, observed.FinalPass).
		Updates(map[string]any{
			"pass1":     passes.Pass1,
			"pass2":     passes.Pass2,
			"pass3":     passes.Pass3,
			"roundpass": passes.RoundPass,
			"finalpass": passes.FinalPass,
		})
	if res.Error != nil {
		return translate("set torque passes", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	if err := mustExist[models.Flange](db, "flange", id); err != nil {
		return err
	}
	return errors.Wrapf(ErrPassesChanged, "flange %d", id)
}

// AdvanceStage writes the sign-off entry of stage and the new status, but
// only while the row still holds the status observed by the caller.
func (r *FlangeRepository) AdvanceStage(
	ctx context.Context,
	id uint,
	observed models.Stage,
	stage models.Stage,
	entry models.SignoffEntry,
	status models.Stage,
) error {
	prefix := string(stage) + "_"
	values := map[string]any{
		prefix + "name":      entry.Name,
		prefix + "signature": entry.Signature,
		prefix + "date":      entry.Date,
		prefix + "company":   entry.Company,
		prefix + "notes":     entry.Notes,
		"status":             string(status),
	}

	res := r.db.WithContext(ctx).
		Model(&models.Flange{}).
		Where("id = ? AND status = ?", id, string(observed)).
		Updates(values)
	if res.Error != nil {
		return translate("advance flange", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	if err := mustExist[models.Flange](r.db.WithContext(ctx), "flange", id); err != nil {
		return err
	}
	return errors.Wrapf(ErrStatusChanged, "flange %d is no longer %q", id, observed)
}

func (r *FlangeRepository) updateColumns(ctx context.Context, op string, id uint, values map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Flange{}).
		Where("id = ?", id).
		Updates(values)
	if res.Error != nil {
		return translate(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "flange %d", id)
	}
	return nil
}
