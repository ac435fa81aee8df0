package task

import "github.com/filedepot/filedepot-api/internal/domain"

// CreateUserPayload is the input for the createUser task.
type CreateUserPayload struct {
	Email    string
	Password string
}

// Kind implements Payload.
func (CreateUserPayload) Kind() Kind { return KindCreateUser }

// SignInPayload is the input for the signInUser task.
type SignInPayload struct {
	Email    string
	Password string
}

// Kind implements Payload.
func (SignInPayload) Kind() Kind { return KindSignIn }

// SignOutPayload is the input for the signOutUser task.
type SignOutPayload struct {
	Token string
}

// Kind implements Payload.
func (SignOutPayload) Kind() Kind { return KindSignOut }

// UploadFilePayload is the input for the uploadFile task. Data carries the
// base64-encoded file contents and is empty for folders.
type UploadFilePayload struct {
	UserID   string
	Name     string
	Type     domain.FileType
	ParentID string
	IsPublic bool
	Data     string
}

// Kind implements Payload.
func (UploadFilePayload) Kind() Kind { return KindUploadFile }

// GenerateThumbnailsPayload is the input for the generateThumbnails task.
type GenerateThumbnailsPayload struct {
	UserID string
	FileID string
}

// Kind implements Payload.
func (GenerateThumbnailsPayload) Kind() Kind { return KindGenerateThumbnails }
