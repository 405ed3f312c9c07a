package trip

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripwripp/booking-backend/internal/ledger"
)

func newTestService() (Service, *ledger.MemoryLedger) {
	l := ledger.NewMemoryLedger()
	return NewService(NewMemoryRepository(), l), l
}

func validCreateRequest(startIn time.Duration) CreateRequest {
	start := time.Now().UTC().Add(startIn)
	return CreateRequest{
		Name:           "Swiss Alps Expedition",
		Country:        "Switzerland",
		Region:         "Europe",
		Description:    "Ten days across alpine passes.",
		StartDate:      start,
		EndDate:        start.Add(10 * 24 * time.Hour),
		TotalSlots:     12,
		PricePerPerson: 2500,
	}
}

func TestCreateTrip(t *testing.T) {
	ctx := context.Background()
	svc, l := newTestService()

	tr, err := svc.Create(ctx, validCreateRequest(24*time.Hour))
	require.NoError(t, err)
	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, StatusScheduled, tr.Status)

	// Creation provisions the capacity account.
	e, err := l.Entry(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, e.TotalSlots)
	assert.Equal(t, 12, e.Available())
}

func TestCreateTripValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	req := validCreateRequest(24 * time.Hour)
	req.TotalSlots = 0
	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidSlots)

	req = validCreateRequest(-time.Hour)
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidDates)

	req = validCreateRequest(24 * time.Hour)
	req.EndDate = req.StartDate
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidDates)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	tr, err := svc.Create(ctx, validCreateRequest(24*time.Hour))
	require.NoError(t, err)

	// Scheduled is not a valid target; it only exists at creation.
	_, err = svc.UpdateStatus(ctx, tr.ID, StatusScheduled)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	updated, err := svc.UpdateStatus(ctx, tr.ID, StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, updated.Status)

	// Terminal statuses never change again.
	_, err = svc.UpdateStatus(ctx, tr.ID, StatusDeparted)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestMarkDepartedDue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	soon, err := svc.Create(ctx, validCreateRequest(time.Hour))
	require.NoError(t, err)
	later, err := svc.Create(ctx, validCreateRequest(48*time.Hour))
	require.NoError(t, err)

	count, err := svc.MarkDepartedDue(ctx, time.Now().UTC().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	tr, err := svc.GetByID(ctx, soon.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDeparted, tr.Status)

	tr, err = svc.GetByID(ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, tr.Status)

	// Nothing further to mark.
	count, err = svc.MarkDepartedDue(ctx, time.Now().UTC().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestBookable(t *testing.T) {
	now := time.Now().UTC()

	tr := &Trip{Status: StatusScheduled, StartDate: now.Add(time.Hour)}
	assert.True(t, tr.Bookable(now))
	assert.False(t, tr.Bookable(now.Add(time.Hour)), "departure instant is not bookable")
	assert.False(t, tr.Bookable(now.Add(2*time.Hour)))

	tr.Status = StatusCancelled
	assert.False(t, tr.Bookable(now))
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	req := validCreateRequest(24 * time.Hour)
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	req = validCreateRequest(48 * time.Hour)
	req.Country = "Indonesia"
	_, err = svc.Create(ctx, req)
	require.NoError(t, err)

	trips, total, err := svc.List(ctx, Filter{Country: "Indonesia"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, trips, 1)
	assert.Equal(t, "Indonesia", trips[0].Country)

	trips, total, err = svc.List(ctx, Filter{Status: string(StatusScheduled)})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, trips, 2)
	// Sorted by departure date.
	assert.True(t, trips[0].StartDate.Before(trips[1].StartDate))
}
