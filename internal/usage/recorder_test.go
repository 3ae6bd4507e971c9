package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/flightdata/internal/kafka"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Incr(ctx context.Context, query string, delta Counters, at time.Time) error {
	return m.Called(ctx, query, delta, at).Error(0)
}

func (m *MockStore) Queries(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStore) Counters(ctx context.Context, query string) (map[string]string, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func TestRecorder_Record(t *testing.T) {
	store := &MockStore{}
	recorder := NewRecorder(store)
	ctx := context.Background()
	at := time.Date(2020, 6, 5, 8, 35, 0, 0, time.UTC)

	store.On("Incr", ctx, "flight_by_id", Counters{Calls: 1, Rows: 1}, at).Return(nil).Once()
	store.On("Incr", ctx, "frequent_routes", Counters{Calls: 1, Errors: 1}, at).Return(nil).Once()

	require.NoError(t, recorder.Record(ctx, kafka.QueryEvent{Query: "flight_by_id", Rows: 1, At: at}))
	require.NoError(t, recorder.Record(ctx, kafka.QueryEvent{Query: "frequent_routes", Error: "no such table", At: at}))

	store.AssertExpectations(t)
}

func TestRecorder_Handle_SkipsMalformed(t *testing.T) {
	store := &MockStore{}
	recorder := NewRecorder(store)

	err := recorder.Handle(context.Background(), kafkago.Message{Value: []byte("{broken"), Offset: 12})

	assert.NoError(t, err)
	store.AssertNotCalled(t, "Incr", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecorder_Handle_StoreErrorStopsConsumer(t *testing.T) {
	store := &MockStore{}
	recorder := NewRecorder(store)
	ctx := context.Background()

	store.On("Incr", ctx, "flights_by_date", Counters{Calls: 1, Rows: 3}, mock.Anything).Return(errors.New("redis down")).Once()

	err := recorder.Handle(ctx, kafkago.Message{Value: []byte(`{"query":"flights_by_date","rows":3,"at":"2020-06-05T08:35:00Z"}`)})

	assert.EqualError(t, err, "redis down")
}

func TestRecorder_Stats(t *testing.T) {
	store := &MockStore{}
	recorder := NewRecorder(store)
	ctx := context.Background()

	store.On("Queries", ctx).Return([]string{"frequent_routes", "flight_by_id"}, nil).Once()
	store.On("Counters", ctx, "flight_by_id").Return(map[string]string{"calls": "4", "rows": "3", "errors": "1", "last_at": "2020-06-05T08:35:00Z"}, nil).Once()
	store.On("Counters", ctx, "frequent_routes").Return(map[string]string{"calls": "2", "rows": "20"}, nil).Once()

	stats, err := recorder.Stats(ctx)

	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "flight_by_id", stats[0].Query)
	assert.Equal(t, Counters{Calls: 4, Rows: 3, Errors: 1}, stats[0].Counters)
	require.NotNil(t, stats[0].LastAt)
	assert.Equal(t, 2020, stats[0].LastAt.Year())
	assert.Equal(t, Counters{Calls: 2, Rows: 20}, stats[1].Counters)
	assert.Nil(t, stats[1].LastAt)
}

func TestRecorder_Stats_Error(t *testing.T) {
	store := &MockStore{}
	recorder := NewRecorder(store)
	ctx := context.Background()

	store.On("Queries", ctx).Return(nil, errors.New("connection refused")).Once()

	_, err := recorder.Stats(ctx)

	assert.ErrorContains(t, err, "connection refused")
}
