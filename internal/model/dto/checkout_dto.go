package dto

// SaveCheckoutFieldsRequest 保存下单附加字段请求
type SaveCheckoutFieldsRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}
