package models

import "time"

// FileRecord запись ledger: текущая версия и хеш содержимого файла
type FileRecord struct {
	Name    string  `json:"file_name"`    // Name уникальное имя файла в ledger
	Hash    string  `json:"content_hash"` // Hash hex BLAKE2b-256 текущего содержимого
	Version Version `json:"version"`      // Version текущая версия
}

// Patch опубликованный патч base_version -> target_version.
// Script хранится в сериализованном виде (формат internal/delta).
type Patch struct {
	CreatedAt     time.Time `json:"created_at"`
	FileName      string    `json:"file_name"`
	TargetHash    string    `json:"target_hash"`
	Script        []byte    `json:"script"`
	BaseVersion   Version   `json:"base_version"`
	TargetVersion Version   `json:"target_version"`
}

// PatchInfo метаданные патча из истории без тела скрипта
type PatchInfo struct {
	CreatedAt     time.Time `json:"created_at"`
	FileName      string    `json:"file_name"`
	TargetHash    string    `json:"target_hash"`
	BaseVersion   Version   `json:"base_version"`
	TargetVersion Version   `json:"target_version"`
	Size          int       `json:"size"` // Size размер сериализованного скрипта
}

// Info возвращает метаданные патча
func (p *Patch) Info() PatchInfo {
	return PatchInfo{
		CreatedAt:     p.CreatedAt,
		FileName:      p.FileName,
		TargetHash:    p.TargetHash,
		BaseVersion:   p.BaseVersion,
		TargetVersion: p.TargetVersion,
		Size:          len(p.Script),
	}
}

// FullFile полное содержимое файла вместе с записью ledger.
// Record.Hash всегда соответствует Content.
type FullFile struct {
	Content []byte
	Record  FileRecord
}
