package handlers

import (
	"net/http"

	"github.com/flangeqc/flangeqc/internal/models"

	"github.com/gin-gonic/gin"
)

type nameForm struct {
	Name string `json:"name"`
}

type assetForm struct {
	Name       string `json:"name"`
	CustomerID refID  `json:"customerId" binding:"required"`
}

type projectForm struct {
	Name    string `json:"name"`
	AssetID refID  `json:"assetId" binding:"required"`
}

type workpackForm struct {
	Name      string `json:"name"`
	ProjectID refID  `json:"projectId" binding:"required"`
}

//
// customers
//

func (h *Handler) ListCustomers(c *gin.Context) {
	customers, err := h.Hierarchy.ListCustomers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var form nameForm
	if !bindJSON(c, &form) {
		return
	}
	customer, err := h.Hierarchy.CreateCustomer(c.Request.Context(), form.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	customer, err := h.Hierarchy.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Hierarchy.DeleteCustomer(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	message(c, "Customer deleted.")
}

//
// assets
//

// ListAssets answers [] for a missing or unparseable customerId.
func (h *Handler) ListAssets(c *gin.Context) {
	customerID, ok := queryID(c, "customerId")
	if !ok {
		c.JSON(http.StatusOK, []models.Asset{})
		return
	}
	assets, err := h.Hierarchy.ListAssets(c.Request.Context(), customerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, assets)
}

func (h *Handler) CreateAsset(c *gin.Context) {
	var form assetForm
	if !bindJSON(c, &form) {
		return
	}
	asset, err := h.Hierarchy.CreateAsset(c.Request.Context(), uint(form.CustomerID), form.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

func (h *Handler) DeleteAsset(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Hierarchy.DeleteAsset(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	message(c, "Asset deleted.")
}

//
// projects
//

func (h *Handler) ListProjects(c *gin.Context) {
	assetID, ok := queryID(c, "assetId")
	if !ok {
		c.JSON(http.StatusOK, []models.Project{})
		return
	}
	projects, err := h.Hierarchy.ListProjects(c.Request.Context(), assetID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *Handler) CreateProject(c *gin.Context) {
	var form projectForm
	if !bindJSON(c, &form) {
		return
	}
	project, err := h.Hierarchy.CreateProject(c.Request.Context(), uint(form.AssetID), form.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *Handler) DeleteProject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Hierarchy.DeleteProject(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	message(c, "Project deleted.")
}

//
// workpacks
//

func (h *Handler) ListWorkpacks(c *gin.Context) {
	projectID, ok := queryID(c, "projectId")
	if !ok {
		c.JSON(http.StatusOK, []models.Workpack{})
		return
	}
	workpacks, err := h.Hierarchy.ListWorkpacks(c.Request.Context(), projectID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, workpacks)
}

func (h *Handler) CreateWorkpack(c *gin.Context) {
	var form workpackForm
	if !bindJSON(c, &form) {
		return
	}
	workpack, err := h.Hierarchy.CreateWorkpack(c.Request.Context(), uint(form.ProjectID), form.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, workpack)
}

func (h *Handler) DeleteWorkpack(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Hierarchy.DeleteWorkpack(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	message(c, "Work pack deleted.")
}
