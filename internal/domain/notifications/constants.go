package notifications

const (
	TypeLeaveSubmitted = "leave_submitted"
	TypeLeaveApproved  = "leave_approved"
	TypeLeaveRejected  = "leave_rejected"
	TypePayrollCreated = "payroll_created"
	TypeAccountCreated = "account_created"
)

// EventNotification is the realtime event name clients subscribe to.
const EventNotification = "notification"
