package duplicate

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/omishoninjp-sys/shopifychecker/internal/app/pkg/ginx"
	"github.com/omishoninjp-sys/shopifychecker/internal/business"
	"github.com/omishoninjp-sys/shopifychecker/internal/check"
)

// DuplicateHandler 副本商品 HTTP Handler
type DuplicateHandler struct {
	svc *business.RemediationService
}

// NewDuplicateHandler 创建副本商品 Handler
func NewDuplicateHandler(svc *business.RemediationService) *DuplicateHandler {
	return &DuplicateHandler{svc: svc}
}

// Scan 扫描副本商品
// POST /api/v1/duplicates/scan
func (h *DuplicateHandler) Scan(c *gin.Context) {
	candidates, err := h.svc.ScanDuplicates(c.Request.Context())
	if err != nil {
		// 空目录按服务端错误返回，不能当成「无副本」的成功结果
		if errors.Is(err, check.ErrEmptyCatalog) {
			ginx.InternalError(c, "catalog snapshot is empty")
			return
		}
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, gin.H{
		"total":      len(candidates),
		"candidates": candidates,
	})
}

// cleanRequest 清理请求体
type cleanRequest struct {
	ProductIDs []int64 `json:"product_ids" binding:"required,min=1"`
}

// Clean 删除指定副本商品（删除前重新校验）
// POST /api/v1/duplicates/clean
func (h *DuplicateHandler) Clean(c *gin.Context) {
	var req cleanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	result, err := h.svc.CleanDuplicates(c.Request.Context(), req.ProductIDs)
	if err != nil {
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, result)
}
