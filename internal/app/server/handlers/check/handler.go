package check

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/omishoninjp-sys/shopifychecker/internal/app/pkg/ginx"
	"github.com/omishoninjp-sys/shopifychecker/internal/app/services/svcheck"
	"github.com/omishoninjp-sys/shopifychecker/internal/entity"
	"github.com/omishoninjp-sys/shopifychecker/internal/model"
)

// maxWaitSeconds Smart Wait 上限，防止长连接占满
const maxWaitSeconds = 60

// CheckHandler 体检 HTTP Handler
type CheckHandler struct {
	svc *svcheck.CheckService
}

// NewCheckHandler 创建体检 Handler
func NewCheckHandler(svc *svcheck.CheckService) *CheckHandler {
	return &CheckHandler{svc: svc}
}

// Create 发起一次全量体检
// POST /api/v1/checks?wait=30
func (h *CheckHandler) Create(c *gin.Context) {
	waitSeconds := 0
	if waitStr := c.Query("wait"); waitStr != "" {
		n, err := strconv.Atoi(waitStr)
		if err != nil || n < 0 {
			ginx.BadRequest(c, "wait must be a non-negative integer")
			return
		}
		waitSeconds = n
	}
	if waitSeconds > maxWaitSeconds {
		waitSeconds = maxWaitSeconds
	}

	view, ready, err := h.svc.StartCheck(c.Request.Context(), model.TriggeredByAPI, false, waitSeconds)
	if err != nil {
		ginx.InternalError(c, err.Error())
		return
	}

	// Smart Wait 超时：返回 3001 + 轮询地址
	if waitSeconds > 0 && !ready {
		ginx.Processing(c, view.CheckID, "/api/v1/checks/"+view.CheckID)
		return
	}

	ginx.Success(c, view)
}

// Get 查询体检记录
// GET /api/v1/checks/:id
func (h *CheckHandler) Get(c *gin.Context) {
	checkID := c.Param("id")

	view, err := h.svc.GetCheck(c.Request.Context(), checkID)
	if err != nil {
		ginx.InternalError(c, err.Error())
		return
	}
	if view == nil {
		ginx.NotFound(c, "check not found")
		return
	}

	// 仍在执行中：返回 3001，提示继续轮询
	if view.Status == entity.CheckRunStatusRunning {
		ginx.Processing(c, view.CheckID, "/api/v1/checks/"+view.CheckID)
		return
	}

	ginx.Success(c, view)
}

// GetLatest 查询最近一次已完成的体检
// GET /api/v1/checks/latest
func (h *CheckHandler) GetLatest(c *gin.Context) {
	view, err := h.svc.GetLatest(c.Request.Context())
	if err != nil {
		ginx.InternalError(c, err.Error())
		return
	}
	if view == nil {
		ginx.NotFound(c, "no completed check found")
		return
	}

	ginx.Success(c, view)
}

// List 分页查询体检记录
// GET /api/v1/checks?page=1&limit=20
func (h *CheckHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	views, total, err := h.svc.ListChecks(c.Request.Context(), page, limit)
	if err != nil {
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, gin.H{
		"total":  total,
		"page":   page,
		"limit":  limit,
		"checks": views,
	})
}
