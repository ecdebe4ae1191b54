package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/enrichhq/enrichctl/internal/api/dto/common"
	"github.com/enrichhq/enrichctl/internal/api/dto/v1/batch"
	"github.com/enrichhq/enrichctl/internal/export"
	"github.com/enrichhq/enrichctl/internal/remote"
	"github.com/enrichhq/enrichctl/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Exporter runs export requests
type Exporter interface {
	Export(ctx context.Context, req export.Request) (export.Outcome, error)
}

type ExportHandler struct {
	exporter     Exporter
	destinations []string
}

func NewExportHandler(exporter Exporter, destinations []string) *ExportHandler {
	return &ExportHandler{
		exporter:     exporter,
		destinations: destinations,
	}
}

func (h *ExportHandler) ListDestinations(c *gin.Context) {
	utils.HandleSuccess(c, batch.DestinationsResponse{Destinations: h.destinations})
}

// Export answers 200 for every request that reached the destinations in
// bulk, including partial failures. Failed ids come back as the remaining
// selection.
func (h *ExportHandler) Export(c *gin.Context) {
	var req batch.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			utils.HandleAPIError(c, err, http.StatusBadRequest, common.ErrCodeValidation, "Invalid export request")
			return
		}
		utils.HandleAPIError(c, err, http.StatusBadRequest, common.ErrCodeBadRequest, "Invalid request body")
		return
	}

	outcome, err := h.exporter.Export(c.Request.Context(), export.Request{
		Targets:          req.Targets,
		Destination:      export.Destination(req.Destination),
		FilenameOverride: req.FilenameOverride,
	})
	if err != nil {
		status, code, message := exportErrorStatus(err)
		utils.HandleAPIError(c, err, status, code, message)
		return
	}

	utils.HandleSuccess(c, batch.ExportResponse{
		Outcome:            outcome,
		RemainingSelection: outcome.FailedIDs(),
		Notice:             outcome.Notice(),
	})
}

func exportErrorStatus(err error) (int, common.ErrorCode, string) {
	switch {
	case errors.Is(err, export.ErrJobNotFound):
		return http.StatusNotFound, common.ErrCodeNotFound, "Job not found"
	case errors.Is(err, export.ErrJobNotCompleted):
		return http.StatusBadRequest, common.ErrCodeValidation, "Only completed jobs can be exported"
	case errors.Is(err, export.ErrValidation):
		return http.StatusBadRequest, common.ErrCodeValidation, "Invalid export request"
	case errors.Is(err, remote.ErrUnauthorized):
		return http.StatusUnauthorized, common.ErrCodeUnauthorized, "Enrichment API rejected the token"
	default:
		return http.StatusBadGateway, common.ErrCodeExportFailed, "Export failed"
	}
}
