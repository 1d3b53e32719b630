package errors

// 응답 본문에 그대로 노출되는 기본 메시지 (번체 중국어)
const (
	MsgUnauthorized     = "請先登入"
	MsgLineLoginNeeded  = "請先使用 LINE 登入"
	MsgForbidden        = "需要管理員權限"
	MsgCSRFInvalid      = "CSRF 驗證失敗"
	MsgInvalidID        = "無效的 ID 格式"
	MsgInvalidInput     = "輸入資料格式錯誤"
	MsgInvalidDate      = "日期格式錯誤"
	MsgNotFound         = "找不到資料"
	MsgConflict         = "目前狀態無法執行此操作"
	MsgAlreadyExists    = "資料已存在"
	MsgTooManyRequests  = "請求過於頻繁，請稍後再試"
	MsgInternal         = "伺服器錯誤，請稍後再試"
	MsgStoreUnavailable = "資料庫未設定"
	MsgMailUnavailable  = "郵件服務未設定"
	MsgLineUnavailable  = "LINE 登入未設定"
	MsgUploadDisabled   = "圖片上傳未設定"
	MsgAdminDisabled    = "管理員密碼未設定"
)
