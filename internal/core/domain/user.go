package domain

// User represents a registered account holder.
type User struct {
	UserID       string `json:"userID"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	AuditFields
}
