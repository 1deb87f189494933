package domain

import "time"

const (
	// MethodTaskStart is the notification method announcing a started task.
	MethodTaskStart = "build/taskStart"
	// MethodTaskFinish is the notification method announcing a finished task.
	MethodTaskFinish = "build/taskFinish"

	// DataKindCompileTask tags the data of a compile TaskStart notification.
	DataKindCompileTask = "compile-task"
	// DataKindCompileReport tags the data of a compile TaskFinish notification.
	DataKindCompileReport = "compile-report"
)

// TaskID correlates the start and finish notifications of one per-target compile.
type TaskID struct {
	ID      string   `json:"id"`
	Parents []string `json:"parents,omitempty"`
}

// Notification is an event pushed to the client while a compile is in flight.
type Notification interface {
	// Method returns the protocol method name of the notification.
	Method() string
}

// CompileTask is the data of a compile TaskStart notification.
type CompileTask struct {
	Target BuildTargetIdentifier `json:"target"`
}

// CompileReport is the data of a compile TaskFinish notification.
// Errors and Warnings are always zero; diagnostics are not tallied.
type CompileReport struct {
	Target   BuildTargetIdentifier `json:"target"`
	OriginID *string               `json:"originId,omitempty"`
	Errors   int                   `json:"errors"`
	Warnings int                   `json:"warnings"`
	Time     *int64                `json:"time,omitempty"`
}

// TaskStartParams announces the start of a task.
type TaskStartParams struct {
	TaskID    TaskID      `json:"taskId"`
	EventTime int64       `json:"eventTime,omitzero"`
	Message   string      `json:"message,omitzero"`
	DataKind  string      `json:"dataKind,omitzero"`
	Data      CompileTask `json:"data"`
}

// Method implements Notification.
func (TaskStartParams) Method() string { return MethodTaskStart }

// TaskFinishParams announces the end of a task.
type TaskFinishParams struct {
	TaskID    TaskID        `json:"taskId"`
	EventTime int64         `json:"eventTime,omitzero"`
	Message   string        `json:"message,omitzero"`
	Status    StatusCode    `json:"status"`
	DataKind  string        `json:"dataKind,omitzero"`
	Data      CompileReport `json:"data"`
}

// Method implements Notification.
func (TaskFinishParams) Method() string { return MethodTaskFinish }

// EventTime converts t to the millisecond timestamps used by notifications.
func EventTime(t time.Time) int64 {
	return t.UnixMilli()
}
