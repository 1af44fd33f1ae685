package notify

import "fmt"

// Canned messages for common task operations
const (
	MsgTaskCreated     = "Task created successfully"
	MsgTaskUpdated     = "Task updated"
	MsgTaskDeleted     = "Task deleted"
	MsgTaskCompleted   = "Task marked as completed"
	MsgTaskIncompleted = "Task marked as pending"
	MsgTaskDuplicated  = "Task duplicated"
	MsgPriorityChanged = "Priority updated"
	MsgDueDateChanged  = "Due date updated"
	MsgCompletedPurged = "All completed tasks have been deleted"
)

// Canned auth messages
const (
	MsgLoggedOut      = "You have been logged out"
	MsgAccountCreated = "Account created successfully"
	MsgSessionExpired = "Your session has expired. Please log in again"
)

// Welcome formats the post-login greeting
func Welcome(name string) string {
	if name == "" {
		return "Welcome back!"
	}
	return fmt.Sprintf("Welcome back, %s!", name)
}

// Status-coded fallback messages used when a failed response carries no
// message of its own. Status 0 means the transport never got a response.
const (
	MsgNetworkError    = "Connection error. Check your network"
	MsgServerError     = "Server error. Try again later"
	MsgNotFound        = "Resource not found"
	MsgUnauthorized    = "You are not allowed to perform this action"
	MsgValidationError = "The provided data is not valid"
)

// BulkCompleted formats the bulk-complete confirmation
func BulkCompleted(count int) string {
	if count == 1 {
		return "1 task completed"
	}
	return fmt.Sprintf("%d tasks completed", count)
}

// BulkDeleted formats the bulk-delete confirmation
func BulkDeleted(count int) string {
	if count == 1 {
		return "1 task deleted"
	}
	return fmt.Sprintf("%d tasks deleted", count)
}

// StatusMessage maps an HTTP status to its default user-facing message
func StatusMessage(status int) string {
	switch status {
	case 0:
		return MsgNetworkError
	case 400:
		return MsgValidationError
	case 401:
		return MsgUnauthorized
	case 404:
		return MsgNotFound
	case 500:
		return MsgServerError
	default:
		return MsgServerError
	}
}

// FailureMessage prefixes an error message with the failed operation
func FailureMessage(operation, reason string) string {
	if reason == "" {
		return operation
	}
	return fmt.Sprintf("%s: %s", operation, reason)
}
