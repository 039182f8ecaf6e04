package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	payrunapp "github.com/payrun/backend/internal/application/payments"
	"github.com/payrun/backend/internal/domain/payments"
	"github.com/payrun/backend/internal/infrastructure/ingest"
	"github.com/payrun/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// PayRunHandler handles pay run allocation endpoints
type PayRunHandler struct {
	BaseHandler
	service         *payrunapp.AllocationService
	maxUploadSize   int64
	defaultPageSize int
}

// NewPayRunHandler creates a new PayRunHandler
func NewPayRunHandler(service *payrunapp.AllocationService, maxUploadSize int64, defaultPageSize int) *PayRunHandler {
	return &PayRunHandler{
		service:         service,
		maxUploadSize:   maxUploadSize,
		defaultPageSize: defaultPageSize,
	}
}

// RegisterRoutes registers pay run routes
func (h *PayRunHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payruns := rg.Group("/payruns")
	{
		payruns.POST("/optimize", h.Optimize)
		payruns.GET("", h.ListRuns)
		payruns.GET("/:id", h.GetRun)
	}
}

// Optimize accepts an invoice CSV upload plus run parameters and returns
// the computed payment schedule
func (h *PayRunHandler) Optimize(c *gin.Context) {
	var req dto.OptimizeRequest
	if err := c.ShouldBind(&req); err != nil {
		h.BadRequest(c, "Invalid request parameters: "+err.Error())
		return
	}

	currentCash, err := decimal.NewFromString(req.CurrentCash)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "cash must be a decimal number")
		return
	}

	maxSpend := decimal.Zero
	if req.MaxSpend != "" {
		maxSpend, err = decimal.NewFromString(req.MaxSpend)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "max_spend must be a decimal number")
			return
		}
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "file is required")
		return
	}
	if fileHeader.Size > h.maxUploadSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeFileTooLarge,
			fmt.Sprintf("file exceeds the maximum upload size of %d bytes", h.maxUploadSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to open uploaded file")
		return
	}
	defer file.Close()

	cmd := payrunapp.OptimizeCommand{
		FileName:    fileHeader.Filename,
		FileSize:    fileHeader.Size,
		CurrentCash: currentCash,
		RunwayDays:  req.RunwayDays,
		Frequency:   payments.Frequency(req.Frequency),
		MaxSpend:    maxSpend,
	}

	result, err := h.service.Optimize(c.Request.Context(), cmd, file)
	if err != nil {
		h.handleIngestError(c, err)
		return
	}

	h.Created(c, dto.OptimizeResponse{
		Run:       dto.ToAllocationRunResponse(result.Run),
		RowErrors: dto.ToRowErrorResponses(result.RowErrors),
	})
}

// ListRuns returns past allocation runs, newest first
func (h *PayRunHandler) ListRuns(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = h.defaultPageSize
	}

	list, err := h.service.ListRuns(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	summaries := make([]dto.AllocationRunSummaryResponse, 0, len(list.Items))
	for _, run := range list.Items {
		summaries = append(summaries, dto.ToAllocationRunSummaryResponse(run))
	}

	h.SuccessWithMeta(c, summaries, list.TotalCount, list.Page, list.PageSize)
}

// GetRun returns a single allocation run with its full schedule
func (h *PayRunHandler) GetRun(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid run ID")
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid run ID")
		return
	}

	run, err := h.service.GetRun(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.ToAllocationRunResponse(run))
}

// handleIngestError maps file-level ingest failures onto stable API codes
func (h *PayRunHandler) handleIngestError(c *gin.Context, err error) {
	var tooMany *ingest.TooManyRowsError
	if errors.As(err, &tooMany) {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeFileTooLarge, tooMany.Error())
		return
	}

	var missing *ingest.MissingColumnsError
	if errors.As(err, &missing) {
		h.UnprocessableEntity(c, dto.ErrCodeInvalidFile, missing.Error())
		return
	}

	if errors.Is(err, ingest.ErrEmptyFile) || errors.Is(err, ingest.ErrInvalidEncoding) || errors.Is(err, ingest.ErrMissingHeader) {
		h.UnprocessableEntity(c, dto.ErrCodeInvalidFile, err.Error())
		return
	}

	h.HandleError(c, err)
}
