package board

import "errors"

var (
	// ErrNotFound indicates the requested board resource does not exist.
	ErrNotFound = errors.New("board resource not found")
	// ErrUnauthorized indicates the board rejected the access token.
	ErrUnauthorized = errors.New("board rejected access token")
	// ErrNoDownloadURL indicates an attachment carries no download URL.
	ErrNoDownloadURL = errors.New("attachment has no download url")
)
