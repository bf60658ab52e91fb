package product

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/omishoninjp-sys/shopifychecker/internal/app/pkg/ginx"
	"github.com/omishoninjp-sys/shopifychecker/internal/business"
)

// ProductHandler 商品修复 HTTP Handler
type ProductHandler struct {
	svc *business.RemediationService
}

// NewProductHandler 创建商品修复 Handler
func NewProductHandler(svc *business.RemediationService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// Translate 翻译商品的日文标题与描述
// POST /api/v1/products/:id/translate
func (h *ProductHandler) Translate(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	result, err := h.svc.TranslateProduct(c.Request.Context(), productID)
	if err != nil {
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, result)
}

// AssignCategory 按标题关键字补填商品分类
// POST /api/v1/products/:id/category
func (h *ProductHandler) AssignCategory(c *gin.Context) {
	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	category, err := h.svc.AssignCategory(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, business.ErrNoCategoryMatch) {
			ginx.Error(c, 422, "no category keyword matched, manual review required")
			return
		}
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, gin.H{
		"product_id": productID,
		"category":   category,
	})
}

// parseProductID 解析路径中的商品 ID
func parseProductID(c *gin.Context) (int64, bool) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		ginx.BadRequest(c, "invalid product id")
		return 0, false
	}
	return productID, true
}
