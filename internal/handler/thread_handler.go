package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lucianodboretti/agentic-factory-backend/internal/logger"
	"github.com/lucianodboretti/agentic-factory-backend/internal/service"
)

// ThreadHandler 线程处理器
type ThreadHandler struct {
	svc *service.Services
	log *logger.Logger
}

// NewThreadHandler 创建线程处理器
func NewThreadHandler(svc *service.Services, log *logger.Logger) *ThreadHandler {
	return &ThreadHandler{svc: svc, log: log.Service("threads")}
}

// createThreadRequest 创建线程请求，标题可选
type createThreadRequest struct {
	Title *string `json:"title"`
}

// updateThreadRequest 更新线程标题请求
type updateThreadRequest struct {
	Title *string `json:"title"`
}

// List 列出所有线程
func (h *ThreadHandler) List(c *gin.Context) {
	h.log.Info("GetAllThreadsRequest").Msg("GET /api/threads hit")

	threads, err := h.svc.Thread.List(c.Request.Context())
	if err != nil {
		h.log.Error("ThreadsFetchError").Err(err).Msg("failed to fetch threads")
		writeError(c, err, "Thread not found", "Failed to load threads")
		return
	}

	h.log.Info("ThreadsFetched").Int("count", len(threads)).Msg("fetched threads")
	c.JSON(http.StatusOK, threads)
}

// Create 创建线程
func (h *ThreadHandler) Create(c *gin.Context) {
	h.log.Info("CreateThreadRequest").Msg("POST /api/threads hit")

	// 空请求体等价于不带标题
	var req createThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	thread, err := h.svc.Thread.Create(c.Request.Context(), req.Title)
	if err != nil {
		h.log.Error("ThreadCreateError").Err(err).Msg("failed to create thread")
		writeError(c, err, "Thread not found", "Failed to create thread")
		return
	}

	h.log.Info("ThreadCreated").Str("id", thread.ID).Msg("new thread created")
	c.JSON(http.StatusCreated, thread)
}

// Get 获取线程
func (h *ThreadHandler) Get(c *gin.Context) {
	id := c.Param("id")
	h.log.Info("GetThreadByIdRequest").Str("id", id).Msg("GET /api/threads/:id hit")

	thread, err := h.svc.Thread.Get(c.Request.Context(), id)
	if err != nil {
		h.log.Warn("ThreadNotFound").Str("id", id).Err(err).Msg("failed to fetch thread")
		writeError(c, err, "Thread not found", "Failed to fetch thread")
		return
	}

	h.log.Info("ThreadFetchedById").Str("id", id).Msg("fetched thread")
	c.JSON(http.StatusOK, thread)
}

// UpdateTitle 更新线程标题
func (h *ThreadHandler) UpdateTitle(c *gin.Context) {
	id := c.Param("id")
	h.log.Info("UpdateThreadTitleRequest").Str("id", id).Msg("PATCH /api/threads/:id hit")

	var req updateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.svc.Thread.UpdateTitle(c.Request.Context(), id, req.Title)
	if err != nil {
		h.log.Error("ThreadUpdateError").Str("id", id).Err(err).Msg("failed to update thread title")
		writeError(c, err, "Thread not found", "Failed to update thread")
		return
	}

	h.log.Info("ThreadTitleUpdated").Str("id", id).Msg("thread title updated")
	c.JSON(http.StatusOK, updated)
}
