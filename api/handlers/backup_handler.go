package handlers

import (
	"net/http"

	"github.com/Elie-50/allo-gaz-lebanon/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// BackupHandler handles database backup requests
type BackupHandler struct {
	service service.Service
	log     *logrus.Logger
}

// NewBackupHandler creates a new BackupHandler instance
func NewBackupHandler(svc service.Service, log *logrus.Logger) *BackupHandler {
	return &BackupHandler{service: svc, log: log}
}

// Run dumps the database and records the run
func (h *BackupHandler) Run(c *gin.Context) {
	date, err := h.service.RunBackup(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lastBackup": date})
}

// Latest reports when the database was last backed up
func (h *BackupHandler) Latest(c *gin.Context) {
	date, err := h.service.LatestBackup(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lastBackup": date})
}
