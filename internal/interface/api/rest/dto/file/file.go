package file

import (
	"time"

	"github.com/google/uuid"
)

type (
	File struct {
		ID           uuid.UUID `json:"id"`
		OriginalName string    `json:"originalName"`
		DisplayName  string    `json:"displayName"`
		URL          string    `json:"url"`
		Size         int64     `json:"size"`
		MimeType     string    `json:"mimeType"`
		CreatedAt    time.Time `json:"createdAt"`
	}
	Files []File

	FailedItem struct {
		Index        int    `json:"index"`
		OriginalName string `json:"originalName"`
		Kind         string `json:"kind"`
		Error        string `json:"error"`
	}

	UploadResponse struct {
		Success bool         `json:"success"`
		Files   Files        `json:"files"`
		Failed  []FailedItem `json:"failed,omitempty"`
	}
	ListResponse struct {
		Files Files `json:"files"`
	}
	FileResponse struct {
		File File `json:"file"`
	}
	MutationResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		File    *File  `json:"file,omitempty"`
	}

	RenameRequest struct {
		DisplayName string `json:"displayName" form:"displayName"`
	}
)
