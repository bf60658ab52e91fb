package domains

import (
	"context"

	"github.com/omishoninjp-sys/shopifychecker/internal/domains/common"
	"github.com/omishoninjp-sys/shopifychecker/internal/domains/common/job"
	"github.com/omishoninjp-sys/shopifychecker/internal/domains/handlers/catalog"
	"github.com/omishoninjp-sys/shopifychecker/internal/model"
)

// HandlerFactory Handler 构造函数类型
type HandlerFactory func(ctx context.Context, meta *job.Meta, payload interface{}) (common.HandlerServ, error)

// HandlerMap 路由表（ActionType → Handler 映射）
var HandlerMap = map[string]HandlerFactory{
	model.ActionTypeCatalogCheck: catalog.NewCheckHandler,
}
