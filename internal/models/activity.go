package models

import "time"

// Activity log action identifiers.
const (
	ActivityActionRegister      = "REGISTER"
	ActivityActionLogin         = "LOGIN"
	ActivityActionInquiryCreate = "INQUIRY_CREATE"
	ActivityActionInquiryUpdate = "INQUIRY_UPDATE"
	ActivityActionInquiryDelete = "INQUIRY_DELETE"
	ActivityActionStatusChange  = "STATUS_CHANGE"
	ActivityActionReplyPost     = "REPLY_POST"
	ActivityActionReplyClear    = "REPLY_CLEAR"
	ActivityActionUserDelete    = "USER_DELETE"
)

// ActivityLog records a best-effort audit trail entry. Writes are independent
// of the primary document write: a failed log entry is warned about and never
// rolls back the operation it describes.
type ActivityLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	Detail     []byte    `db:"detail" json:"detail,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent  string    `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
