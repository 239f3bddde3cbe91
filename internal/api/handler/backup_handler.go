package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ewout/snapvault/internal/api/dto"
	"github.com/ewout/snapvault/internal/core/domain"
	"github.com/ewout/snapvault/internal/core/service"
)

type BackupHandler struct {
	backupService *service.BackupService
}

func NewBackupHandler(backupService *service.BackupService) *BackupHandler {
	return &BackupHandler{
		backupService: backupService,
	}
}

// ListBackups handles GET /backups
func (h *BackupHandler) ListBackups(c *gin.Context) {
	snaps, err := h.backupService.List(c.Request.Context())
	if err != nil {
		internalError(c)
		return
	}

	// Always an array, never null, also for zero snapshots.
	response := make([]dto.SnapshotResponse, len(snaps))
	for i, snap := range snaps {
		created := snap.CreatedAt.Format(time.RFC3339)
		response[i] = dto.SnapshotResponse{
			Name:      snap.Name,
			Size:      domain.FormatSize(snap.SizeBytes),
			Date:      created,
			CreatedAt: created,
		}
	}

	c.JSON(http.StatusOK, response)
}

// CreateBackup handles POST /backups
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	result, err := h.backupService.Create(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrSourceMissing) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error:   "Not Found",
				Message: "Primary data file does not exist",
				Code:    http.StatusNotFound,
			})
			return
		}
		internalError(c)
		return
	}

	response := dto.CreateBackupResponse{
		Message: "Backup created successfully",
		Backup: dto.BackupInfo{
			Name: result.Snapshot.Name,
			Size: domain.FormatSize(result.Snapshot.SizeBytes),
			Date: result.Snapshot.CreatedAt.Format(time.RFC3339),
		},
	}
	for _, warning := range result.Warnings {
		response.Warnings = append(response.Warnings, dto.PruneWarningResponse{
			Name:   warning.Name,
			Reason: "could not be removed by retention pruning",
		})
	}

	c.JSON(http.StatusOK, response)
}

// DownloadBackup handles GET /backups/:name
func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	name := c.Param("name")

	data, err := h.backupService.Read(c.Request.Context(), name)
	if err != nil {
		respondBackupError(c, err, name)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Length", fmt.Sprintf("%d", len(data)))
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// DeleteBackup handles DELETE /backups?file={name}
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	name := c.Query("file")
	if name == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad Request",
			Message: "Missing 'file' query parameter",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if err := h.backupService.Delete(c.Request.Context(), name); err != nil {
		respondBackupError(c, err, name)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Backup %s deleted", name),
	})
}

func respondBackupError(c *gin.Context, err error, name string) {
	switch {
	case errors.Is(err, service.ErrInvalidName):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid backup file name",
			Code:    http.StatusBadRequest,
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "Not Found",
			Message: fmt.Sprintf("Backup not found: %s", name),
			Code:    http.StatusNotFound,
		})
	default:
		internalError(c)
	}
}

// internalError hides operational detail from the caller; the service has
// already logged the cause.
func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "Internal Server Error",
		Message: "Backup operation failed",
		Code:    http.StatusInternalServerError,
	})
}
