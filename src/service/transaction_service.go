package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack-server/src/apperr"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
)

// Amounts are stored as numeric(14, 2).
var maxAmount = decimal.New(1, 12)

type TransactionService struct {
	store TransactionStore
	now   func() time.Time
}

func NewTransactionService(store TransactionStore) *TransactionService {
	return &TransactionService{store: store, now: time.Now}
}

func (s *TransactionService) Create(ctx context.Context, ownerID string, in models.TransactionInput) (*models.Transaction, error) {
	if ownerID == "" {
		return nil, apperr.ErrUnauthenticated
	}

	verr := &apperr.ValidationError{}
	t := &models.Transaction{OwnerID: ownerID}

	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Note != nil {
		t.Note = *in.Note
	}

	if util.IsAbsent(in.Amount) {
		verr.Add("amount", "is required")
	} else if amount, err := util.ParseAmount(in.Amount); err != nil {
		verr.Add("amount", err.Error())
	} else {
		t.Amount = amount
	}

	if in.Type == nil {
		verr.Add("type", "is required")
	} else {
		t.Type = models.TransactionType(*in.Type)
	}

	if in.Category == nil {
		verr.Add("category", "is required")
	} else {
		t.Category = strings.TrimSpace(*in.Category)
	}

	if util.IsAbsent(in.Date) {
		t.Date = s.now().UTC()
	} else if date, err := util.ParseDate(in.Date); err != nil {
		verr.Add("date", err.Error())
	} else {
		t.Date = date
	}

	validateRecord(t, verr)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	created, err := s.store.Insert(ctx, t)
	if err != nil {
		return nil, storeErr("insert transaction", err)
	}
	return created, nil
}

// List returns the owner's transactions, newest created first.
func (s *TransactionService) List(ctx context.Context, ownerID string) ([]models.Transaction, error) {
	if ownerID == "" {
		return nil, apperr.ErrUnauthenticated
	}
	transactions, err := s.store.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

// Update merges the supplied fields over the owner's transaction. The id and
// owner of the stored record are never taken from the input.
func (s *TransactionService) Update(ctx context.Context, ownerID, id string, in models.TransactionInput) (*models.Transaction, error) {
	if ownerID == "" {
		return nil, apperr.ErrUnauthenticated
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.ErrNotFound
	}

	existing, err := s.store.FindOne(ctx, id, ownerID)
	if err != nil {
		return nil, storeErr("find transaction", err)
	}

	verr := &apperr.ValidationError{}
	merged := *existing

	if in.Title != nil {
		merged.Title = strings.TrimSpace(*in.Title)
	}
	if in.Note != nil {
		merged.Note = *in.Note
	}
	if in.Type != nil {
		merged.Type = models.TransactionType(*in.Type)
	}
	if in.Category != nil {
		merged.Category = strings.TrimSpace(*in.Category)
	}
	if !util.IsAbsent(in.Amount) {
		if amount, err := util.ParseAmount(in.Amount); err != nil {
			verr.Add("amount", err.Error())
		} else {
			merged.Amount = amount
		}
	}
	if !util.IsAbsent(in.Date) {
		if date, err := util.ParseDate(in.Date); err != nil {
			verr.Add("date", err.Error())
		} else {
			merged.Date = date
		}
	}

	validateRecord(&merged, verr)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, &merged)
	if err != nil {
		return nil, storeErr("update transaction", err)
	}
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return apperr.ErrUnauthenticated
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperr.ErrNotFound
	}
	if err := s.store.Delete(ctx, id, ownerID); err != nil {
		return storeErr("delete transaction", err)
	}
	return nil
}

func (s *TransactionService) Summary(ctx context.Context, ownerID string) (*models.Summary, error) {
	if ownerID == "" {
		return nil, apperr.ErrUnauthenticated
	}
	summary, err := s.store.Summarize(ctx, ownerID)
	if err != nil {
		return nil, storeErr("summarize transactions", err)
	}
	return summary, nil
}

// validateRecord checks the invariants every stored transaction must hold.
func validateRecord(t *models.Transaction, verr *apperr.ValidationError) {
	if _, missing := verr.Fields["type"]; !missing && !t.Type.Valid() {
		verr.Add("type", "must be income or expense")
	}
	if _, missing := verr.Fields["category"]; !missing && t.Category == "" {
		verr.Add("category", "must not be blank")
	}
	if _, bad := verr.Fields["amount"]; !bad {
		switch {
		case !t.Amount.IsPositive():
			verr.Add("amount", util.ErrNotPositive.Error())
		case !t.Amount.Equal(t.Amount.Round(2)):
			verr.Add("amount", "must have at most 2 decimal places")
		case t.Amount.GreaterThanOrEqual(maxAmount):
			verr.Add("amount", "is too large")
		}
	}
}

// storeErr passes not-found and unknown-owner errors through and classifies
// everything else as the store being unavailable.
func storeErr(op string, err error) error {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return apperr.ErrNotFound
	case errors.Is(err, apperr.ErrUnauthenticated):
		return apperr.ErrUnauthenticated
	}
	return fmt.Errorf("%s: %w: %w", op, apperr.ErrStoreUnavailable, err)
}
