package handlers

import (
	"fmt"
	"net/http"

	"github.com/flangeqc/flangeqc/internal/models"
	"github.com/flangeqc/flangeqc/internal/report"

	"github.com/gin-gonic/gin"
)

// flangeForm is the body of POST /flanges and PUT /flanges/:id. On update
// every core field is written, so anything left out is stored empty.
type flangeForm struct {
	models.JointSpec
	WorkpackID refID        `json:"workpackId" binding:"required"`
	Comments   string       `json:"comments"`
	Status     models.Stage `json:"status" binding:"omitempty,stage"`
}

func (f flangeForm) flange() models.Flange {
	return models.Flange{
		WorkpackID: uint(f.WorkpackID),
		JointSpec:  f.JointSpec,
		Comments:   f.Comments,
		Status:     f.Status,
	}
}

// detailsForm is the body of PUT /flanges/:id/details.
type detailsForm struct {
	models.JointSpec
	ToolCerts string `json:"toolcerts"`
	models.TorquePasses

	Breakout  models.SignoffEntry `json:"breakout"`
	Assembled models.SignoffEntry `json:"assembled"`
	Tightened models.SignoffEntry `json:"tightened"`
	QC        models.SignoffEntry `json:"qc"`
	Client    models.SignoffEntry `json:"client"`
}

func (f detailsForm) flange() models.Flange {
	return models.Flange{
		JointSpec:    f.JointSpec,
		ToolCerts:    f.ToolCerts,
		TorquePasses: f.TorquePasses,
		Breakout:     f.Breakout,
		Assembled:    f.Assembled,
		Tightened:    f.Tightened,
		QC:           f.QC,
		Client:       f.Client,
	}
}

type statusForm struct {
	Status string `json:"status" binding:"required"`
}

type advanceForm struct {
	Stage models.Stage        `json:"stage" binding:"required,stage"`
	Entry models.SignoffEntry `json:"entry"`
}

type passForm struct {
	Pass  int    `json:"pass" binding:"required"`
	Value string `json:"value"`
}

type finalPassForm struct {
	Value string `json:"value" binding:"required"`
}

func (h *Handler) CreateFlange(c *gin.Context) {
	var form flangeForm
	if !bindJSON(c, &form) {
		return
	}
	f, err := h.Flanges.Create(c.Request.Context(), form.flange())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *Handler) UpdateFlange(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var form flangeForm
	if !bindJSON(c, &form) {
		return
	}
	if err := h.Flanges.Update(c.Request.Context(), id, form.flange()); err != nil {
		h.fail(c, err)
		return
	}
	message(c, "Flange updated.")
}

func (h *Handler) UpdateFlangeDetails(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var form detailsForm
	if !bindJSON(c, &form) {
		return
	}
	if err := h.Flanges.UpdateDetails(c.Request.Context(), id, form.flange()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) GetFlange(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	f, err := h.Flanges.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) ListFlanges(c *gin.Context) {
	workpackID, ok := queryID(c, "workpackId")
	if !ok {
		badRequest(c, "Missing workpackId in query.")
		return
	}
	flanges, err := h.Flanges.ListByWorkpack(c.Request.Context(), workpackID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, flanges)
}

func (h *Handler) ListFlangesByProject(c *gin.Context) {
	projectID, ok := queryID(c, "projectId")
	if !ok {
		badRequest(c, "Missing projectId")
		return
	}
	flanges, err := h.Flanges.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, flanges)
}

func (h *Handler) ListAllFlanges(c *gin.Context) {
	flanges, err := h.Flanges.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, flanges)
}

func (h *Handler) DeleteFlange(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Flanges.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	message(c, "Flange deleted.")
}

//
// sign-off workflow
//

// UpdateFlangeStatus is the administrative override: any known stage, no
// transition check.
func (h *Handler) UpdateFlangeStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var form statusForm
	if !bindJSON(c, &form) {
		return
	}
	if err := h.Workflow.UpdateStatus(c.Request.Context(), id, models.Stage(form.Status)); err != nil {
		h.fail(c, err)
		return
	}
	message(c, "Status updated.")
}

func (h *Handler) AdvanceFlange(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var form advanceForm
	if !bindJSON(c, &form) {
		return
	}
	f, err := h.Workflow.Advance(c.Request.Context(), id, form.Stage, form.Entry)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) RecordPass(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var form passForm
	if !bindJSON(c, &form) {
		return
	}
	f, err := h.Workflow.RecordPass(c.Request.Context(), id, form.Pass, form.Value)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) RecordFinalPass(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var form finalPassForm
	if !bindJSON(c, &form) {
		return
	}
	f, err := h.Workflow.RecordFinalPass(c.Request.Context(), id, form.Value)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) SignoffSheet(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	f, err := h.Flanges.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	pdf, err := report.SignoffSheet(f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="flange-%d-signoff.pdf"`, f.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
