package tui

import (
	"newsdeck/internal/aggregate"
)

type progressMsg struct {
	completed int
	total     int
}

type refreshDoneMsg struct {
	result aggregate.Result
}

type refreshErrMsg struct {
	err error
}
