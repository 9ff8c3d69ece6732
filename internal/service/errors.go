// Package service holds the business rules behind the HTTP handlers.
package service

import (
	"errors"

	"sharehub/internal/models"
	"sharehub/internal/repository"
)

// mapRepoError turns a repository failure into an AppError. Errors that
// already are AppErrors pass through.
func mapRepoError(err error, resource string, id any) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if repository.IsNotFound(err) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

func validationErr(err error) error {
	return models.NewValidationError(err.Error())
}
