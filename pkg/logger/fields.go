package logger

// Standard field names for consistent logging.
const (
	FieldService  = "service"
	FieldJob      = "job"
	FieldError    = "error"
	FieldUserID   = "user_id"
	FieldChatID   = "chat_id"
	FieldGroupID  = "group_id"
	FieldSheetGID = "gid"
	FieldDate     = "date"
)
