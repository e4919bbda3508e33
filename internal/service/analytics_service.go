package service

import (
	"alcyxob/trainer-analytics/internal/analytics"
	"alcyxob/trainer-analytics/internal/domain"
	"alcyxob/trainer-analytics/internal/metrics"
	"alcyxob/trainer-analytics/internal/repository"
	"alcyxob/trainer-analytics/internal/storage"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnalyticsOptions tunes the analytics service.
type AnalyticsOptions struct {
	Location  *time.Location // calendar used for windows, UTC when nil
	URLExpiry time.Duration  // lifetime of export download links
}

// ExerciseHistoryView is the per-day history of one exercise for one client.
type ExerciseHistoryView struct {
	analytics.ExerciseHistory
	ClientName   string `json:"clientName"`
	ExerciseName string `json:"exerciseName"`
}

// ReportExport describes a report written to object storage.
type ReportExport struct {
	Key       string            `json:"key"`
	URL       string            `json:"url"`
	ExpiresAt time.Time         `json:"expiresAt"`
	Report    *analytics.Report `json:"report"`
}

type AnalyticsService interface {
	// PeriodComparison summarises the window containing ref and the one before
	// it, for one client or, with a nil clientID, for every client.
	PeriodComparison(ctx context.Context, g analytics.Granularity, ref time.Time, clientID *primitive.ObjectID) (*analytics.Comparison, error)
	// Report builds the per-client table and fleet totals for the window containing ref.
	Report(ctx context.Context, g analytics.Granularity, ref time.Time) (*analytics.Report, error)
	VolumeSeries(ctx context.Context, from, to time.Time, clientID *primitive.ObjectID) (*analytics.VolumeSeries, error)
	ExerciseHistory(ctx context.Context, clientID, exerciseID primitive.ObjectID) (*ExerciseHistoryView, error)
	// ExportReport stores the report as JSON and returns a temporary download link.
	ExportReport(ctx context.Context, g analytics.Granularity, ref time.Time) (*ReportExport, error)
}

type analyticsService struct {
	workoutRepo  repository.WorkoutRepository
	clientRepo   repository.ClientRepository
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage // nil disables export
	loc          *time.Location
	urlExpiry    time.Duration
	metrics      *metrics.Manager
}

func NewAnalyticsService(
	workoutRepo repository.WorkoutRepository,
	clientRepo repository.ClientRepository,
	exerciseRepo repository.ExerciseRepository,
	fileStorage storage.FileStorage,
	opts AnalyticsOptions,
	m *metrics.Manager,
) AnalyticsService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.URLExpiry <= 0 {
		opts.URLExpiry = storage.DefaultPresignedURLExpiry
	}
	return &analyticsService{
		workoutRepo:  workoutRepo,
		clientRepo:   clientRepo,
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
		loc:          opts.Location,
		urlExpiry:    opts.URLExpiry,
		metrics:      m,
	}
}

// workoutsFor loads every workout of the scope that falls in one of the windows.
// The windows are contiguous, so one range query covers them.
func (s *analyticsService) workoutsFor(ctx context.Context, from, to time.Time, clientID *primitive.ObjectID) ([]domain.Workout, error) {
	workouts, err := s.workoutRepo.List(ctx, repository.WorkoutFilter{ClientID: clientID, From: &from, To: &to})
	if err != nil {
		return nil, repoError(s.metrics, "listWorkouts", err)
	}
	return workouts, nil
}

func (s *analyticsService) PeriodComparison(ctx context.Context, g analytics.Granularity, ref time.Time, clientID *primitive.ObjectID) (*analytics.Comparison, error) {
	current := analytics.WindowFor(ref, g, s.loc)
	previous := current.Previous()

	workouts, err := s.workoutsFor(ctx, previous.Start, current.End, clientID)
	if err != nil {
		return nil, err
	}

	fleet := clientID == nil
	c := analytics.Compare(
		analytics.Summarize(current, workouts, fleet),
		analytics.Summarize(previous, workouts, fleet),
	)
	c.ClientID = clientID
	return &c, nil
}

func (s *analyticsService) Report(ctx context.Context, g analytics.Granularity, ref time.Time) (*analytics.Report, error) {
	current := analytics.WindowFor(ref, g, s.loc)
	previous := current.Previous()

	workouts, err := s.workoutsFor(ctx, previous.Start, current.End, nil)
	if err != nil {
		return nil, err
	}
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, repoError(s.metrics, "listClients", err)
	}

	report := analytics.Compose(current, clients, analytics.SummarizeByClient(current, workouts))
	comparison := analytics.Compare(
		analytics.Summarize(current, workouts, true),
		analytics.Summarize(previous, workouts, true),
	)
	report.Comparison = &comparison
	return &report, nil
}

func (s *analyticsService) VolumeSeries(ctx context.Context, from, to time.Time, clientID *primitive.ObjectID) (*analytics.VolumeSeries, error) {
	start, end, err := analytics.SeriesRange(from, to, s.loc)
	if err != nil {
		return nil, err
	}
	workouts, err := s.workoutsFor(ctx, start, end, clientID)
	if err != nil {
		return nil, err
	}
	series, err := analytics.DailySeries(from, to, s.loc, workouts)
	if err != nil {
		return nil, err
	}
	return &series, nil
}

func (s *analyticsService) ExerciseHistory(ctx context.Context, clientID, exerciseID primitive.ObjectID) (*ExerciseHistoryView, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("client", clientID)
		}
		return nil, repoError(s.metrics, "getClient", err)
	}
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("exercise", exerciseID)
		}
		return nil, repoError(s.metrics, "getExercise", err)
	}

	workouts, err := s.workoutRepo.List(ctx, repository.WorkoutFilter{ClientID: &clientID})
	if err != nil {
		return nil, repoError(s.metrics, "listWorkouts", err)
	}

	return &ExerciseHistoryView{
		ExerciseHistory: analytics.BuildExerciseHistory(clientID, exerciseID, s.loc, workouts),
		ClientName:      client.Name,
		ExerciseName:    exercise.Name,
	}, nil
}

func (s *analyticsService) ExportReport(ctx context.Context, g analytics.Granularity, ref time.Time) (*ReportExport, error) {
	if s.fileStorage == nil {
		return nil, ErrExportDisabled
	}

	report, err := s.Report(ctx, g, ref)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	key := fmt.Sprintf("reports/%s/%s/%s.json", report.Window.Granularity, report.Window.Start.Format(time.DateOnly), uuid.NewString())
	if err := s.fileStorage.PutObject(ctx, key, "application/json", bytes.NewReader(body)); err != nil {
		return nil, repoError(s.metrics, "putReport", err)
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, key, s.urlExpiry)
	if err != nil {
		// Nobody can reach the object without a link.
		if delErr := s.fileStorage.DeleteObject(ctx, key); delErr != nil {
			log.WithError(delErr).WithField("key", key).Warn("could not remove unlinked report")
		}
		return nil, repoError(s.metrics, "presignReport", err)
	}

	s.metrics.CounterReportsExported.Inc()
	log.WithFields(log.Fields{"key": key, "window": report.Window.Label}).Info("analytics report exported")

	return &ReportExport{
		Key:       key,
		URL:       url,
		ExpiresAt: time.Now().Add(s.urlExpiry).UTC(),
		Report:    report,
	}, nil
}
