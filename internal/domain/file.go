package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileType enumerates the kinds of entries a user can store.
type FileType string

// Supported file types.
const (
	TypeFolder FileType = "folder"
	TypeFile   FileType = "file"
	TypeImage  FileType = "image"
)

// Valid reports whether the type is one of the supported kinds.
func (t FileType) Valid() bool {
	switch t {
	case TypeFolder, TypeFile, TypeImage:
		return true
	}
	return false
}

// RootParentID marks a file stored at the root of a user's tree.
const RootParentID = "0"

// File represents a stored entry: a folder, a regular file, or an image.
// LocalPath is the on-disk location of the raw bytes and is absent for
// folders. It is set once at creation and never moved.
type File struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	Name      string             `bson:"name"`
	Type      FileType           `bson:"type"`
	ParentID  string             `bson:"parentId"`
	IsPublic  bool               `bson:"isPublic"`
	LocalPath string             `bson:"localPath,omitempty"`
}

// PublicFile is the client-facing view of a File. The store's raw `_id`
// field is remapped to `id` and the local path is never exposed.
type PublicFile struct {
	ID       string   `json:"id"`
	UserID   string   `json:"userId"`
	Name     string   `json:"name"`
	Type     FileType `json:"type"`
	IsPublic bool     `json:"isPublic"`
	ParentID string   `json:"parentId"`
}

// Public returns the client-facing view of the file.
func (f *File) Public() PublicFile {
	return PublicFile{
		ID:       f.ID.Hex(),
		UserID:   f.UserID.Hex(),
		Name:     f.Name,
		Type:     f.Type,
		IsPublic: f.IsPublic,
		ParentID: f.ParentID,
	}
}

// OwnedBy reports whether the file belongs to the user with the given
// hex ID.
func (f *File) OwnedBy(userID string) bool {
	return f.UserID.Hex() == userID
}
