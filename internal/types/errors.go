package types

import "errors"

// Structural errors raised by the workspace store. A failed operation never
// mutates the tree; callers match with errors.Is and present the message.
var (
	// ErrCollision means a sibling with the requested name already exists.
	ErrCollision = errors.New("a file or folder with that name already exists")

	// ErrNotFound means the addressed path does not resolve.
	ErrNotFound = errors.New("no such file or folder")

	// ErrNotAFolder means a folder operation addressed a file.
	ErrNotAFolder = errors.New("not a folder")

	// ErrUnsupportedExtension rejects file creation outside the supported
	// language set.
	ErrUnsupportedExtension = errors.New("unsupported file extension")

	// ErrRootImmutable guards the root folder against rename, move and delete.
	ErrRootImmutable = errors.New("the root folder cannot be modified")

	// ErrInvalidName rejects empty names and names containing separators.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidMove rejects moving a folder into itself or a descendant.
	ErrInvalidMove = errors.New("cannot move a folder into itself")
)
