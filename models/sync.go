// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SyncDirection selects what a sync run does.
type SyncDirection string

const (
	SyncPush SyncDirection = "push"
	SyncPull SyncDirection = "pull"
	// SyncAuto pulls first, then pushes with the pulled ETag as a skip hint.
	SyncAuto SyncDirection = "auto"
)

// Valid reports whether d is a known direction.
func (d SyncDirection) Valid() bool {
	switch d {
	case SyncPush, SyncPull, SyncAuto:
		return true
	}
	return false
}

// Stage is one step of a sync run as reported to observers.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageDumping     Stage = "dumping"
	StageFiltering   Stage = "filtering"
	StageEncrypting  Stage = "encrypting"
	StageUploading   Stage = "uploading"
	StageDownloading Stage = "downloading"
	StageDecrypting  Stage = "decrypting"
	StageApplying    Stage = "applying"
	StageDone        Stage = "done"
	StageError       Stage = "error"
)

// Terminal reports whether no further stage follows s.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageError
}

// StageMessage is what a sync run emits on every transition. Error is only
// set on [StageError].
type StageMessage struct {
	Stage Stage  `json:"stage"`
	Error string `json:"error,omitempty"`
}

// SyncMetadata is the persisted state of the remote object.
// ETag and LastHash are empty when unknown.
type SyncMetadata struct {
	ObjectID string `json:"objectId"`
	ETag     string `json:"etag"`
	LastHash string `json:"lastHash"`
}

// SyncReport summarizes one SyncNow call.
type SyncReport struct {
	RunID     string        `json:"runId,omitempty"`
	Direction SyncDirection `json:"direction"`

	// Dropped is set when another sync was already in flight and this call
	// did nothing.
	Dropped bool `json:"dropped,omitempty"`

	// Pull side.
	RemoteMissing bool `json:"remoteMissing,omitempty"`
	NotModified   bool `json:"notModified,omitempty"`
	Applied       int  `json:"applied,omitempty"`
	Failed        int  `json:"failed,omitempty"`
	Expired       int  `json:"expired,omitempty"`

	// Push side.
	Pushed      bool `json:"pushed,omitempty"`
	PushSkipped bool `json:"pushSkipped,omitempty"`

	// Filtered counts records removed by policies on either side.
	Filtered int `json:"filtered,omitempty"`

	ETag string `json:"etag,omitempty"`
}
