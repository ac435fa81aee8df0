package api

import "github.com/filedepot/filedepot-api/internal/domain"

// Common request/response structures

// CreateUserRequest defines the payload for the user creation endpoint.
type CreateUserRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UploadFileRequest defines the payload for the file upload endpoint.
// Data carries the base64-encoded content and is required for every type
// except folder.
type UploadFileRequest struct {
	Name     string          `json:"name"     validate:"required"`
	Type     domain.FileType `json:"type"     validate:"required,oneof=folder file image"`
	ParentID string          `json:"parentId"`
	IsPublic bool            `json:"isPublic"`
	Data     string          `json:"data"`
}

// ConnectResponse defines the successful response for GET /connect.
type ConnectResponse struct {
	Token string `json:"token"`
}

// StatusResponse defines the response for GET /status.
type StatusResponse struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

// StatsResponse defines the response for GET /stats.
type StatsResponse struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}
