package service

import (
	"alcyxob/trainer-analytics/internal/domain"
	"alcyxob/trainer-analytics/internal/metrics"
	"alcyxob/trainer-analytics/internal/repository"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrExportDisabled is returned by report export when no object storage is configured.
var ErrExportDisabled = errors.New("report export is not configured")

// notFound builds a domain.ErrNotFound naming the missing entity.
func notFound(what string, id primitive.ObjectID) error {
	return fmt.Errorf("%w: %s %s", domain.ErrNotFound, what, id.Hex())
}

// repoError translates a repository failure into a domain error kind.
// repository.ErrNotFound becomes domain.ErrNotFound, domain kinds pass
// through, anything else is an opaque storage failure of op.
func repoError(m *metrics.Manager, op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %s", domain.ErrNotFound, op)
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrStorageFailure):
		return err
	}

	log.WithError(err).WithField("op", op).Error("storage failure")
	m.CounterStorageFailures.WithLabelValues(op).Inc()
	return domain.NewStorageError(op, err)
}
