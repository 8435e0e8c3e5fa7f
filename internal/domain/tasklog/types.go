package tasklog

type Action string

const (
	ActionCompleted Action = "completed"
	ActionUndone    Action = "undone"
)
