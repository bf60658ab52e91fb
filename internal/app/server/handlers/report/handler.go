package report

import (
	"github.com/gin-gonic/gin"

	"github.com/omishoninjp-sys/shopifychecker/internal/app/pkg/ginx"
	"github.com/omishoninjp-sys/shopifychecker/internal/app/services/svcheck"
	"github.com/omishoninjp-sys/shopifychecker/pkg/mailer"
)

// ReportHandler 报表 HTTP Handler
type ReportHandler struct {
	svc    *svcheck.CheckService
	mailer *mailer.Mailer
}

// NewReportHandler 创建报表 Handler
func NewReportHandler(svc *svcheck.CheckService, m *mailer.Mailer) *ReportHandler {
	return &ReportHandler{svc: svc, mailer: m}
}

// SendEmail 将最近一次体检报告通过邮件发送
// POST /api/v1/reports/email
func (h *ReportHandler) SendEmail(c *gin.Context) {
	if !h.mailer.Enabled() {
		ginx.Error(c, 422, "email is not configured")
		return
	}

	view, err := h.svc.GetLatest(c.Request.Context())
	if err != nil {
		ginx.InternalError(c, err.Error())
		return
	}
	if view == nil || view.Result == nil {
		ginx.NotFound(c, "no completed check found")
		return
	}

	if err := h.mailer.SendReport(view.Result); err != nil {
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, gin.H{
		"check_id":     view.CheckID,
		"total_issues": view.Result.TotalIssues,
		"sent":         view.Result.TotalIssues > 0, // 无问题时跳过发送
	})
}
