// Package api описывает JSON-типы HTTP API репозитория
package api

import "time"

// FileRecord запись ledger в wire-формате
type FileRecord struct {
	FileName    string `json:"file_name"`    // имя файла
	Version     string `json:"version"`      // версия "major.minor.patch"
	ContentHash string `json:"content_hash"` // hex BLAKE2b-256 содержимого
}

// LedgerResponse ответ GET /api/v1/ledger
type LedgerResponse struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Files       []FileRecord `json:"files"`
}

// PatchResponse ответ GET /api/v1/patch/{name}?base=
type PatchResponse struct {
	CreatedAt     time.Time `json:"created_at"`
	FileName      string    `json:"file_name"`
	BaseVersion   string    `json:"base_version"`
	TargetVersion string    `json:"target_version"`
	TargetHash    string    `json:"target_hash"`
	Script        []byte    `json:"script"` // сериализованный edit script (base64 в JSON)
}

// FullFileResponse ответ GET /api/v1/files/{name}
type FullFileResponse struct {
	Record  FileRecord `json:"record"`
	Content []byte     `json:"content"` // содержимое файла (base64 в JSON)
}

// RegisterRequest запрос POST /api/v1/files
type RegisterRequest struct {
	FileName string `json:"file_name"`
}

// UpdateResponse ответ POST /api/v1/update/{name}
type UpdateResponse struct {
	Record  FileRecord `json:"record"`
	Changed bool       `json:"changed"` // false, если содержимое не изменилось
}

// PatchInfo метаданные патча из истории
type PatchInfo struct {
	CreatedAt     time.Time `json:"created_at"`
	BaseVersion   string    `json:"base_version"`
	TargetVersion string    `json:"target_version"`
	TargetHash    string    `json:"target_hash"`
	Size          int       `json:"size"`
}

// HistoryResponse ответ GET /api/v1/history/{name}
type HistoryResponse struct {
	FileName string      `json:"file_name"`
	Patches  []PatchInfo `json:"patches"`
}
