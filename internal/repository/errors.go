package repository

import "errors"

var (
	ErrNotFound     = errors.New("entity not found")
	ErrDuplicateKey = errors.New("entity already exists")
	ErrInvalidID    = errors.New("malformed object id")
)
