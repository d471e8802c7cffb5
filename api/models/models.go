// Package models tracks all api models for request and responses
package models

type UploadResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
}

type ImageResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	UploadedAt string `json:"uploadedAt"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type DeviceIPResponse struct {
	IP string `json:"ip"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
