package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/land-resolver/app/requests"
	"github.com/land-resolver/app/responses"
	"github.com/land-resolver/app/services"
	"github.com/land-resolver/helpers/utils"
)

// IngestController accepts ingestion jobs and reports their progress.
type IngestController struct {
	ingestService *services.IngestService
	logger        *zap.Logger
}

func NewIngestController(is *services.IngestService, logger *zap.Logger) *IngestController {
	return &IngestController{ingestService: is, logger: logger}
}

// Ingest handles POST /v1/ingest. The batch runs in the background;
// the response carries a job id for polling.
func (ic *IngestController) Ingest(c *gin.Context) {
	var req requests.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "INVALID_REQUEST",
			Message: err.Error(),
		})
		return
	}

	mode := req.Mode
	if mode == "" {
		mode = "incremental"
	}

	jobID := utils.GenerateUUID()
	ic.ingestService.StartJob(jobID)
	go ic.ingestService.ProcessJob(jobID, req.Path, req.Source, mode, req.CityCode)

	ic.logger.Info("ingest job accepted",
		zap.String("job_id", jobID),
		zap.String("path", req.Path),
		zap.String("source", req.Source),
		zap.String("mode", mode))

	c.JSON(http.StatusAccepted, responses.IngestResponse{
		JobID:   jobID,
		Mode:    mode,
		Source:  req.Source,
		Message: "job accepted",
	})
}

// GetJobStatus handles GET /v1/ingest/jobs/:jobID.
func (ic *IngestController) GetJobStatus(c *gin.Context) {
	jobID := c.Param("jobID")
	status, err := ic.ingestService.GetJobStatus(jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:   "JOB_NOT_FOUND",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, responses.JobStatusResponse{
		JobID:     status.JobID,
		Status:    status.Status,
		Inserted:  status.Counters.Inserted,
		Enriched:  status.Counters.Enriched,
		Discarded: status.Counters.Discarded,
		Message:   status.Message,
	})
}
