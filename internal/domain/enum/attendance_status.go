package enum

// AttendanceStatus is the state of a single attendance record
type AttendanceStatus string

const (
	AttendanceOnDuty    AttendanceStatus = "on-duty"
	AttendanceCompleted AttendanceStatus = "completed"
)
