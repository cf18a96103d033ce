package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/chensoul/interview-guide/internal/models"
	"github.com/chensoul/interview-guide/internal/utils"
)

// writeDomainError maps a domain error to its HTTP shape. Domain error
// kinds double as response codes; anything unrecognized becomes a 500
// with a generic body.
func writeDomainError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var domainErr *models.Error
	if !errors.As(err, &domainErr) {
		logger.Error("request failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Internal server error",
		})
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Kind {
	case models.KindNotFound:
		status = http.StatusNotFound
	case models.KindConflict, models.KindInvalidState:
		status = http.StatusConflict
	case models.KindInsufficientData:
		status = http.StatusUnprocessableEntity
	case models.KindRenderFailed:
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	}

	utils.JSON(w, status, models.ErrorResponse{
		Code:    string(domainErr.Kind),
		Message: domainErr.Message,
	})
}
