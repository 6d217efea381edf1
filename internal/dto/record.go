package dto

// ── 生活记录簿 DTO ──

// RecordResponse 生活记录簿草稿响应
type RecordResponse struct {
	RecordID  string `json:"recordId"`
	StudentID string `json:"studentId"`
	Content   string `json:"content"`
	Version   int    `json:"version"`
	UpdatedAt string `json:"updatedAt"`
}

// UpdateRecordRequest 草稿保存请求
// Version 为读取时拿到的版本号，过期时返回冲突要求刷新
type UpdateRecordRequest struct {
	Content string `json:"content" binding:"max=10000"`
	Version int    `json:"version" binding:"required,min=1"`
}
