package database

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrAlreadyRegistered = errors.New("active registration already exists")
	ErrEventFull         = errors.New("event is full")
	ErrConnectionExists  = errors.New("connection already exists for pair")
	ErrStaleTransition   = errors.New("row is no longer in the expected state")
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// notFound переводит gorm.ErrRecordNotFound в ErrNotFound пакета
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
