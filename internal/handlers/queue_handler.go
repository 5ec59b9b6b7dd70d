package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/walkin-queue/internal/domain/queue"
	"github.com/BruksfildServices01/walkin-queue/internal/httperr"
	"github.com/BruksfildServices01/walkin-queue/internal/httpresp"
	"github.com/BruksfildServices01/walkin-queue/internal/live"
	"github.com/BruksfildServices01/walkin-queue/internal/middleware"
	"github.com/BruksfildServices01/walkin-queue/internal/models"
	ucQueue "github.com/BruksfildServices01/walkin-queue/internal/usecase/queue"
)

// ======================================================
// HANDLER
// ======================================================

type QueueHandler struct {
	db         *gorm.DB
	repo       domain.Repository
	joinUC     *ucQueue.JoinQueue
	transition *ucQueue.TransitionEntry
}

func NewQueueHandler(
	db *gorm.DB,
	repo domain.Repository,
	joinUC *ucQueue.JoinQueue,
	transition *ucQueue.TransitionEntry,
) *QueueHandler {
	return &QueueHandler{
		db:         db,
		repo:       repo,
		joinUC:     joinUC,
		transition: transition,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type JoinQueueRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`
}

// ======================================================
// JOIN
// ======================================================

func (h *QueueHandler) Join(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	var req JoinQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	// The token is the identity input; name and contact come from the
	// account it resolves to, not from the request body.
	var account models.Account
	if err := h.db.First(&account, customerID).Error; err != nil {
		httperr.Internal(c, "account_not_found", "Account not found.")
		return
	}

	entry, err := h.joinUC.Execute(c.Request.Context(), ucQueue.JoinInput{
		CustomerID:    account.ID,
		CustomerName:  account.Name,
		ContactHandle: account.Phone,
		ServiceID:     req.ServiceID,
	})
	if err != nil {
		writeQueueError(c, err)
		return
	}

	httpresp.Created(c, entry)
}

// ======================================================
// MY STATUS
// ======================================================

func (h *QueueHandler) MyStatus(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	entries, err := h.repo.ActiveEntries(c.Request.Context())
	if err != nil {
		httperr.Unavailable(c, "store_unavailable", "Queue temporarily unavailable.")
		return
	}

	httpresp.OK(c, live.CustomerView(entries, customerID))
}

// ======================================================
// STAFF TABLE
// ======================================================

func (h *QueueHandler) StaffTable(c *gin.Context) {
	entries, err := h.repo.ActiveEntries(c.Request.Context())
	if err != nil {
		httperr.Unavailable(c, "store_unavailable", "Queue temporarily unavailable.")
		return
	}

	httpresp.List(c, live.StaffTable(entries))
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *QueueHandler) Start(c *gin.Context) {
	h.applyTransition(c, domain.ActionStart)
}

func (h *QueueHandler) Complete(c *gin.Context) {
	h.applyTransition(c, domain.ActionComplete)
}

func (h *QueueHandler) Remove(c *gin.Context) {
	h.applyTransition(c, domain.ActionRemove)
}

func (h *QueueHandler) applyTransition(c *gin.Context, action domain.Action) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	actorRole := c.MustGet(middleware.ContextUserRole).(string)

	entry, err := h.transition.Execute(c.Request.Context(), ucQueue.TransitionInput{
		EntryID:   c.Param("id"),
		Action:    action,
		ActorID:   actorID,
		ActorRole: actorRole,
	})
	if err != nil {
		writeQueueError(c, err)
		return
	}

	httpresp.OK(c, entry)
}

// ======================================================
// ERROR MAPPING
// ======================================================

func writeQueueError(c *gin.Context, err error) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.Unavailable(c, "store_unavailable", "Queue temporarily unavailable.")
		return
	}

	switch code {
	case httperr.CodeAlreadyQueued:
		httperr.Conflict(c, code, "You are already in the queue.")
	case httperr.CodeStaleEntry:
		httperr.Conflict(c, code, "Entry changed underneath you; refresh and retry.")
	case httperr.CodeServiceNotFound:
		httperr.NotFound(c, code, "Service not found.")
	case httperr.CodeEntryNotFound:
		httperr.NotFound(c, code, "Queue entry not found.")
	case httperr.CodeIllegalTransition:
		httperr.BadRequest(c, code, "Action not allowed for the entry's current status.")
	case httperr.CodeUnauthorized:
		httperr.Forbidden(c, code, "Staff role required.")
	default:
		httperr.BadRequest(c, code, "Request rejected.")
	}
}
