package service

import "errors"

// Every command returns one of these sentinels (possibly wrapped) so the
// handler layer can map failures to distinct status codes.
var (
	ErrNotFound            = errors.New("record not found")
	ErrUnauthorized        = errors.New("caller is not allowed to perform this action")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrForumDeleted        = errors.New("forum has been deleted")
	ErrQuestionClosed      = errors.New("question is resolved and no longer accepts stakes")
	ErrAlreadyResolved     = errors.New("question is already resolved")
	ErrAnswerMismatch      = errors.New("answer does not belong to this question")
	ErrDuplicateResolution = errors.New("question already has a correct answer")
	ErrTransferFailed      = errors.New("token transfer failed")
)
