package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrMissingAPIKey = errors.New("OpenAI API key not found")
	ErrPersistence   = errors.New("persistence failed")
	ErrNotAnImage    = errors.New("file is not an image")
)
