package service

import (
	"errors"
	"fmt"
)

var (
	ErrNoPages          = errors.New("no pages found for this account")
	ErrNoLinkedAccount  = errors.New("no instagram business account linked to this page")
	ErrNoConversations  = errors.New("no instagram conversations found")
	ErrNoRecipient      = errors.New("no user participant found in conversation")
	ErrManyRecipients   = errors.New("more than one candidate recipient in conversation")
	ErrNotReadyTimeout  = errors.New("media container not ready after maximum attempts")
	ErrContainerFailed  = errors.New("media container processing failed")
	ErrUnknownFlow      = errors.New("unknown flow")
	ErrEmptyCode        = errors.New("authorization code is empty")
	ErrNoMediaReturned  = errors.New("no media id returned")
	ErrNoPostsAvailable = errors.New("no posts available on this account")
)

// AuthError marks which step of the authorization pipeline failed.
type AuthError struct {
	Stage string
	Err   error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authorization failed at %s: %v", e.Stage, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// PublishError marks which step of the publish pipeline failed.
type PublishError struct {
	Stage string
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish failed at %s: %v", e.Stage, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
