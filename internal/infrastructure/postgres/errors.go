package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-realty-backend/internal/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
)

var checkMessages = map[string]string{
	"customers_budget_range":     "budget_min must not exceed budget_max",
	"customers_budget_min_check": "budget_min must not be negative",
	"customers_budget_max_check": "budget_max must not be negative",
	"properties_price_check":     "price must not be negative",
	"properties_bedrooms_check":  "bedrooms must not be negative",
	"properties_bathrooms_check": "bathrooms must not be negative",
	"properties_area_check":      "area must not be negative",
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// translate maps driver errors onto domain errors. notFound is used for pgx.ErrNoRows
// and for malformed identifiers, so a bad id looks like a missing row.
func translate(err error, notFound, duplicate *domain.Error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	switch pgCode(err) {
	case codeUniqueViolation:
		if duplicate != nil {
			return duplicate
		}
		return domain.Conflict("duplicate value")
	case codeForeignKeyViolation:
		return domain.Validation("referenced record does not exist")
	case codeCheckViolation:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if msg, ok := checkMessages[pgErr.ConstraintName]; ok {
				return domain.Validation(msg)
			}
		}
		return domain.Validation("invalid field value")
	case codeInvalidText:
		return notFound
	}
	return domain.Internal(err)
}
