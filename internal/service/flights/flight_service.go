package flights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightdata/internal/catalog"
	"github.com/Domenick1991/flightdata/internal/domain"
	"github.com/Domenick1991/flightdata/internal/kafka"
	"github.com/Domenick1991/flightdata/internal/logging"
	"github.com/Domenick1991/flightdata/internal/metrics"
	"github.com/Domenick1991/flightdata/internal/repository"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

const (
	defaultThreshold       = 20
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = 30 * time.Second
	auditTimeout           = 2 * time.Second
)

type FlightUseCase interface {
	GetByID(ctx context.Context, id int64) ([]domain.Flight, error)
	ListByDate(ctx context.Context, day, month, year int) ([]domain.Flight, error)
	ListDelayedByAirline(ctx context.Context, airline string) ([]domain.Flight, error)
	ListDelayedByAirport(ctx context.Context, airport string) ([]domain.Flight, error)
	DelayPercentage(ctx context.Context, category domain.DelayCategory) ([]domain.DelayPercentage, error)
	FrequentRoutes(ctx context.Context) ([]domain.Route, error)
	Health(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type FlightService struct {
	repo       repository.FlightRepository
	threshold  int
	breaker    *gobreaker.CircuitBreaker[any]
	producer   Producer
	auditTopic string
	now        func() time.Time
}

type FlightServiceOption func(*FlightService)

// WithAuditPublisher publishes a kafka.QueryEvent to topic after every query.
func WithAuditPublisher(producer Producer, topic string) FlightServiceOption {
	return func(s *FlightService) {
		s.producer = producer
		s.auditTopic = topic
	}
}

// WithBreaker opens the breaker after failures consecutive query errors and probes again after timeout.
func WithBreaker(failures int, timeout time.Duration) FlightServiceOption {
	return func(s *FlightService) {
		s.breaker = newBreaker(failures, timeout)
	}
}

// NewFlightService builds the service. A nil repo puts it in unavailable mode: every
// call fails with domain.ErrServiceUnavailable.
func NewFlightService(repo repository.FlightRepository, threshold int, opts ...FlightServiceOption) *FlightService {
	if threshold < 1 {
		threshold = defaultThreshold
	}
	s := &FlightService{
		repo:      repo,
		threshold: threshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.breaker == nil {
		s.breaker = newBreaker(defaultBreakerFailures, defaultBreakerTimeout)
	}
	return s
}

func newBreaker(failures int, timeout time.Duration) *gobreaker.CircuitBreaker[any] {
	if failures < 1 {
		failures = defaultBreakerFailures
	}
	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "flight-store",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(failures)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.SetStoreUp(to != gobreaker.StateOpen)
		},
	})
}

func (s *FlightService) GetByID(ctx context.Context, id int64) ([]domain.Flight, error) {
	return call(ctx, s, catalog.FlightByID, map[string]any{"id": id}, func() ([]domain.Flight, error) {
		return s.repo.GetByID(ctx, id)
	})
}

// ListByDate returns an empty result for impossible dates without querying the store.
func (s *FlightService) ListByDate(ctx context.Context, day, month, year int) ([]domain.Flight, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	if day < 1 || day > 31 || month < 1 || month > 12 || year <= 1900 {
		return []domain.Flight{}, nil
	}
	params := map[string]any{"day": day, "month": month, "year": year}
	return call(ctx, s, catalog.FlightsByDate, params, func() ([]domain.Flight, error) {
		return s.repo.ListByDate(ctx, day, month, year)
	})
}

func (s *FlightService) ListDelayedByAirline(ctx context.Context, airline string) ([]domain.Flight, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	airline = strings.TrimSpace(airline)
	if airline == "" {
		return nil, domain.NewValidationError("Parameter airline is required")
	}
	params := map[string]any{"airline": airline, "threshold": s.threshold}
	return call(ctx, s, catalog.DelayedFlightsByAirline, params, func() ([]domain.Flight, error) {
		return s.repo.ListDelayedByAirline(ctx, airline, s.threshold)
	})
}

func (s *FlightService) ListDelayedByAirport(ctx context.Context, airport string) ([]domain.Flight, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	code, err := NormalizeIATA(airport)
	if err != nil {
		return nil, err
	}
	params := map[string]any{"airport": code, "threshold": s.threshold}
	return call(ctx, s, catalog.DelayedFlightsByAirport, params, func() ([]domain.Flight, error) {
		return s.repo.ListDelayedByAirport(ctx, code, s.threshold)
	})
}

func (s *FlightService) DelayPercentage(ctx context.Context, category domain.DelayCategory) ([]domain.DelayPercentage, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	params := map[string]any{"threshold": s.threshold}
	switch category {
	case domain.DelayByAirline:
		return call(ctx, s, catalog.DelayPercentageByAirline, params, func() ([]domain.DelayPercentage, error) {
			return s.repo.DelayPercentageByAirline(ctx, s.threshold)
		})
	case domain.DelayByHour:
		return call(ctx, s, catalog.DelayPercentageByHour, params, func() ([]domain.DelayPercentage, error) {
			return s.repo.DelayPercentageByHour(ctx, s.threshold)
		})
	case domain.DelayByAirports:
		return call(ctx, s, catalog.DelayPercentageByAirports, params, func() ([]domain.DelayPercentage, error) {
			return s.repo.DelayPercentageByAirports(ctx, s.threshold)
		})
	default:
		return nil, InvalidCategoryError()
	}
}

func (s *FlightService) FrequentRoutes(ctx context.Context) ([]domain.Route, error) {
	return call(ctx, s, catalog.FrequentRoutes, map[string]any{"threshold": s.threshold}, func() ([]domain.Route, error) {
		return s.repo.FrequentRoutes(ctx, s.threshold)
	})
}

// Health pings the store directly, bypassing the breaker so it can report recovery.
func (s *FlightService) Health(ctx context.Context) error {
	if err := s.available(); err != nil {
		return err
	}
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}
	return nil
}

// InvalidCategoryError lists every accepted category in reporting order.
func InvalidCategoryError() error {
	names := make([]string, 0, len(domain.DelayCategories))
	for _, c := range domain.DelayCategories {
		names = append(names, string(c))
	}
	return domain.NewValidationError("Invalid category. Valid categories: %s", strings.Join(names, ", "))
}

// NormalizeIATA upper-cases a three letter airport code.
func NormalizeIATA(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", domain.NewValidationError("Invalid airport code %q: expected 3 letters", code)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", domain.NewValidationError("Invalid airport code %q: expected 3 letters", code)
		}
	}
	return code, nil
}

func (s *FlightService) available() error {
	if s.repo == nil {
		return domain.ErrServiceUnavailable
	}
	return nil
}

// call runs fn through the breaker and publishes the audit event.
func call[T any](ctx context.Context, s *FlightService, query string, params map[string]any, fn func() ([]T, error)) ([]T, error) {
	if err := s.available(); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := s.breaker.Execute(func() (any, error) {
		v, err := fn()
		return v, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err)
	}

	var out []T
	if err == nil {
		out, _ = res.([]T)
		if out == nil {
			out = []T{}
		}
	}
	s.audit(ctx, query, params, len(out), err, time.Since(start))

	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FlightService) audit(ctx context.Context, query string, params map[string]any, rows int, err error, elapsed time.Duration) {
	if s.producer == nil || s.auditTopic == "" {
		return
	}
	event := kafka.QueryEvent{
		ID:         uuid.New(),
		Query:      query,
		Params:     params,
		Rows:       rows,
		DurationMS: elapsed.Milliseconds(),
		RequestID:  logging.RequestIDFromContext(ctx),
		At:         s.now().UTC(),
	}
	if err != nil {
		event.Error = err.Error()
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()
	if perr := s.producer.Publish(pubCtx, s.auditTopic, query, event); perr != nil {
		logging.Ctx(ctx).Warn().Err(perr).Str("query", query).Msg("failed to publish query event")
	}
}

var _ FlightUseCase = (*FlightService)(nil)
