package employee

import (
	"net/http"

	"go-garage/internal/shared/apperror"
	"go-garage/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultPageSize = 10

type Handler struct {
	service       Service
	exposeDetails bool
	logger        *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, exposeDetails: true, logger: l}
}

// WithErrorDetails controls whether the underlying error text is returned
// in the "details" field. It is always logged.
func (h *Handler) WithErrorDetails(expose bool) *Handler {
	h.exposeDetails = expose
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
		zap.String("details", httpErr.Details),
	)

	details := httpErr.Details
	if !h.exposeDetails {
		details = ""
	}
	response.Error(c, httpErr.Status, httpErr.Message, details)
}

func (h *Handler) Create(c *gin.Context) {
	h.logger.Debug("http create employee")

	// Body yang tidak bisa di-parse dilaporkan sebagai internal error.
	var payload CreateEmployeePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("http create employee decode failed", zap.Error(err))
		h.writeServiceError(c, apperror.ErrInternal.WithCause(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), payload.ToRequest())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "employee", resp)
}

func (h *Handler) List(c *gin.Context) {
	var q ListEmployeesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.logger.Warn("http list employees validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = defaultPageSize
	}
	h.logger.Debug("http list employees",
		zap.String("parent_user_uid", q.ParentUserUID),
		zap.Int("page", q.Page),
		zap.Int("page_size", q.PageSize),
	)

	resp, err := h.service.ListByParent(c.Request.Context(), q.ParentUserUID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	total := int64(len(resp))
	// bandingkan dulu sebelum dikali supaya page besar tidak overflow
	start := len(resp)
	if q.Page-1 <= len(resp)/q.PageSize {
		start = (q.Page - 1) * q.PageSize
	}
	end := start + q.PageSize
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, q.Page, q.PageSize)
	response.SuccessWithMeta(c, http.StatusOK, "employees", resp[start:end], meta)
}

func (h *Handler) GetByUID(c *gin.Context) {
	userUID := c.Param("userUid")
	h.logger.Debug("http get employee", zap.String("user_uid", userUID))

	resp, err := h.service.GetByUID(c.Request.Context(), userUID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "employee", resp)
}
