package common

import "github.com/omishoninjp-sys/shopifychecker/internal/domains/common/response"

// HandlerServ 业务 Handler 接口
// Handler 在构造时完成消息解析与校验，GetProcess 执行业务并包装响应
type HandlerServ interface {
	GetProcess() *response.Response
}
