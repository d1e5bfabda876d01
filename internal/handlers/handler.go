package handlers

import (
	"github.com/flangeqc/flangeqc/internal/database"
	"github.com/flangeqc/flangeqc/internal/uploads"
	"github.com/flangeqc/flangeqc/internal/workflow"

	"github.com/sirupsen/logrus"
)

// Handler carries the stores every route works against.
type Handler struct {
	Hierarchy *database.HierarchyStore
	Flanges   *database.FlangeRepository
	Users     *database.UserStore
	Workflow  *workflow.SignoffWorkflow
	Uploads   *uploads.Store
	Log       *logrus.Logger
}

func New(
	hierarchy *database.HierarchyStore,
	flanges *database.FlangeRepository,
	users *database.UserStore,
	wf *workflow.SignoffWorkflow,
	up *uploads.Store,
	log *logrus.Logger,
) *Handler {
	registerValidators()
	return &Handler{
		Hierarchy: hierarchy,
		Flanges:   flanges,
		Users:     users,
		Workflow:  wf,
		Uploads:   up,
		Log:       log,
	}
}
