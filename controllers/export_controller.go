package controllers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/library-backend/jobs"
	"github.com/vnkhanh/library-backend/middleware"
)

// Exports is the shared CSV job store. Set once by routes.SetupRouter.
var Exports *jobs.ExportStore

// DownloadCSV kicks off a catalog snapshot and returns the job id for
// polling.
func DownloadCSV(c *gin.Context) {
	id := Exports.Start(middleware.GetDB(c))
	c.JSON(http.StatusOK, gin.H{"taskid": id})
}

// GetCSV streams the finished file, or reports pending while the job
// is still running.
func GetCSV(c *gin.Context) {
	path, done := Exports.Lookup(c.Param("id"))
	if !done {
		c.JSON(http.StatusNotFound, gin.H{"message": "Task Pending"})
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
