package service

import "sync"

// CommandGate serializes the commands that move token value (ask, stake
// deposit, resolution). Each of them checks question status before
// transferring, and the transfer plus the local write must not interleave
// with another command's check. The engine owns its database and runs as a
// single process, so an in-process mutex is sufficient.
type CommandGate struct {
	sync.Mutex
}

func NewCommandGate() *CommandGate {
	return &CommandGate{}
}
