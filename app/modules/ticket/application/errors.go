package ticketservice

import "errors"

var (
	// ErrChannelNotConfigured indicates the guild has no suggestions channel.
	ErrChannelNotConfigured = errors.New("suggestions channel not configured")

	// ErrForbidden indicates the requester is neither the ticket author nor
	// holds an elevated permission.
	ErrForbidden = errors.New("not allowed to edit this ticket")

	// ErrRenderedMessageMissing indicates the ticket's rendered message was
	// deleted externally. Edits never recreate a missing message.
	ErrRenderedMessageMissing = errors.New("rendered message no longer exists")

	// ErrNotEditable indicates the transport refused to edit the rendered
	// message. The persisted change stands.
	ErrNotEditable = errors.New("rendered message is not editable")

	// ErrEmptyDescription indicates a blank ticket description.
	ErrEmptyDescription = errors.New("description cannot be empty")
)
