package models

import "io"

// Asset is a binary upload on its way to the asset store.
type Asset struct {
	NoteID      string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
