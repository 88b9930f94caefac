// Package repository implements the data access layer for the board.
package repository

import (
	"errors"

	"mmorpgboard/internal/models"

	"gorm.io/gorm"
)

// translate maps GORM errors to AppErrors. Not found becomes NOT_FOUND for
// resource/id; everything else is an internal error.
func translate(err error, resource string, id interface{}) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(err)
}
