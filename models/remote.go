// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// RemoteObject identifies the single remote blob and, when known, its
// current version token.
type RemoteObject struct {
	ID   string
	ETag string
	// URL is the human-facing address of the object, when the store has one.
	URL string
}

// RemoteBlob is the content of the remote object at version ETag.
type RemoteBlob struct {
	Content []byte
	ETag    string
}

// Gist is the subset of the GitHub Gist resource the adapter reads.
type Gist struct {
	ID          string              `json:"id"`
	Description string              `json:"description"`
	HTMLURL     string              `json:"html_url,omitempty"`
	Files       map[string]GistFile `json:"files"`
}

// GistFile is one file of a [Gist]. Content is omitted from list responses
// and is truncated by the API for large files, in which case RawURL serves
// the full text.
type GistFile struct {
	Filename  string `json:"filename,omitempty"`
	Content   string `json:"content,omitempty"`
	RawURL    string `json:"raw_url,omitempty"`
	Truncated bool   `json:"truncated,omitempty"`
}

// GistWriteRequest is the body of gist create and update calls.
type GistWriteRequest struct {
	Description string                      `json:"description,omitempty"`
	Public      *bool                       `json:"public,omitempty"`
	Files       map[string]GistFileContents `json:"files"`
}

// GistFileContents carries the new content of one gist file.
type GistFileContents struct {
	Content string `json:"content"`
}
