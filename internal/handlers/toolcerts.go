package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// multipart framing on top of the file itself
const multipartOverhead = 1 << 20

// UploadToolCert stores the "pdf" form file and points the flange at it.
// The previous certificate file, if any, is left on disk.
func (h *Handler) UploadToolCert(c *gin.Context) {
	id, ok := pathID(c, "flangeId")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Uploads.MaxSize()+multipartOverhead)
	fh, err := c.FormFile("pdf")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"message": "File too large."})
			return
		}
		badRequest(c, "No file uploaded.")
		return
	}

	file, err := fh.Open()
	if err != nil {
		h.fail(c, errors.Wrap(err, "open uploaded file"))
		return
	}
	defer file.Close()

	path, err := h.Uploads.SaveToolCert(file)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.Flanges.SetToolCertPath(c.Request.Context(), id, path); err != nil {
		if rmErr := h.Uploads.Remove(path); rmErr != nil {
			h.Log.WithError(rmErr).WithField("file", path).Warn("could not remove orphaned upload")
		}
		h.fail(c, err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"flange_id": id,
		"file":      path,
		"original":  fh.Filename,
	}).Info("tool certificate uploaded")

	c.JSON(http.StatusOK, gin.H{"message": "PDF uploaded.", "filePath": path})
}
