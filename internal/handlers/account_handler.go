package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/mamamaps/backend/internal/middleware"
	"github.com/mamamaps/backend/internal/models"
	"github.com/mamamaps/backend/internal/services"
)

type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// DeleteAccount removes the caller's reports and profile. Auth-provider
// account deletion happens client side; this cleans up everything we own.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	result, err := h.accountService.DeleteAccount(r.Context(), userID)
	if err != nil {
		logrus.WithError(err).WithField("user", userID).Error("delete account")
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete account data"))
		return
	}

	logrus.WithFields(logrus.Fields{
		"user":    userID,
		"reports": result.ReportsDeleted,
	}).Info("account data deleted")

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(result))
}
