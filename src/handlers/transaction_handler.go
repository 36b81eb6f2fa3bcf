package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"fintrack-server/src/middleware"
	"fintrack-server/src/models"
	"fintrack-server/src/service"
	"fintrack-server/src/util"
)

func CreateTransaction(svc *service.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		var req models.TransactionInput
		if err := decodeBody(w, r, &req); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("failed to decode create transaction request body")
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		created, err := svc.Create(r.Context(), userID, req)
		if err != nil {
			writeServiceError(w, err, log.With().Str("user_id", userID).Logger(), "failed to create transaction")
			return
		}
		log.Info().Str("user_id", userID).Str("transaction_id", created.ID).Msg("created transaction")
		util.WriteJSON(w, http.StatusCreated, created)
	}
}

func GetTransactions(svc *service.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		transactions, err := svc.List(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err, log.With().Str("user_id", userID).Logger(), "failed to get transactions")
			return
		}
		util.WriteJSON(w, http.StatusOK, transactions)
	}
}

func GetTransactionSummary(svc *service.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())

		summary, err := svc.Summary(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err, log.With().Str("user_id", userID).Logger(), "failed to summarize transactions")
			return
		}
		util.WriteJSON(w, http.StatusOK, summary)
	}
}

func UpdateTransaction(svc *service.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		transactionID := chi.URLParam(r, "transaction_id")

		var req models.TransactionInput
		if err := decodeBody(w, r, &req); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("failed to decode update transaction request body")
			util.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}

		updated, err := svc.Update(r.Context(), userID, transactionID, req)
		if err != nil {
			writeServiceError(w, err,
				log.With().Str("user_id", userID).Str("transaction_id", transactionID).Logger(),
				"failed to update transaction")
			return
		}
		log.Info().Str("user_id", userID).Str("transaction_id", updated.ID).Msg("updated transaction")
		util.WriteJSON(w, http.StatusOK, updated)
	}
}

func DeleteTransaction(svc *service.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		transactionID := chi.URLParam(r, "transaction_id")

		if err := svc.Delete(r.Context(), userID, transactionID); err != nil {
			writeServiceError(w, err,
				log.With().Str("user_id", userID).Str("transaction_id", transactionID).Logger(),
				"failed to delete transaction")
			return
		}
		log.Info().Str("user_id", userID).Str("transaction_id", transactionID).Msg("deleted transaction")
		util.WriteJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})
	}
}
