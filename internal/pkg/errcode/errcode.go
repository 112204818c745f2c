package errcode

const (
	ErrUnknown = 10000000 + iota
	ErrInvalid
	ErrTooMany
	ErrInternal
	ErrMissingCredential
	ErrUnreadableDocument
	ErrInvalidVideoURL
	ErrNoCaptions
	ErrNoUsableModel
	ErrBadModelResponse
	ErrModelTransport
)
