package reservation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Luck-shya/WorkIndia/internal/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory database.Store with the same transactional
// semantics the engine relies on in Postgres: a per-train row lock held for
// the life of the transaction, and staged writes that become visible only on
// commit. Concurrency tests run real goroutine races against it.
type memStore struct {
	mu       sync.Mutex
	trains   map[int64]database.Train
	bookings []database.Booking
	nextID   int64
	rowLocks map[int64]*sync.Mutex

	failSaveTrain bool
	failCommit    bool
}

func newMemStore() *memStore {
	return &memStore{
		trains:   make(map[int64]database.Train),
		rowLocks: make(map[int64]*sync.Mutex),
	}
}

func (s *memStore) addTrain(id int64, totalSeats, availableSeats int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trains[id] = database.Train{
		ID:             id,
		TrainNumber:    fmt.Sprintf("TR%03d", id),
		Source:         "Mumbai",
		Destination:    "Delhi",
		TotalSeats:     totalSeats,
		AvailableSeats: availableSeats,
	}
	s.rowLocks[id] = &sync.Mutex{}
}

func (s *memStore) addBooking(userID, trainID int64, seatNumber int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.bookings = append(s.bookings, database.Booking{
		ID:         s.nextID,
		BookingRef: uuid.New(),
		UserID:     userID,
		TrainID:    trainID,
		SeatNumber: seatNumber,
		CreatedAt:  time.Now(),
	})
}

func (s *memStore) train(id int64) database.Train {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trains[id]
}

func (s *memStore) bookingCount(trainID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, b := range s.bookings {
		if b.TrainID == trainID {
			count++
		}
	}
	return count
}

// checkCounterInvariant asserts available_seats == total_seats - count(bookings).
func (s *memStore) checkCounterInvariant(t *testing.T, trainID int64) {
	t.Helper()
	train := s.train(trainID)
	assert.Equal(t, train.TotalSeats-s.bookingCount(trainID), train.AvailableSeats,
		"available seats must equal total seats minus confirmed bookings")
}

func (s *memStore) Begin(ctx context.Context) (database.Tx, error) {
	return &memTx{store: s, savedTrains: make(map[int64]database.Train)}, nil
}

type memTx struct {
	store       *memStore
	held        []*sync.Mutex
	inserted    []*database.Booking
	savedTrains map[int64]database.Train
	closed      bool
}

func (tx *memTx) LockTrainForUpdate(ctx context.Context, trainID int64) (*database.Train, error) {
	tx.store.mu.Lock()
	lock, ok := tx.store.rowLocks[trainID]
	tx.store.mu.Unlock()
	if !ok {
		return nil, database.ErrNotFound
	}

	// Block here, like a second FOR UPDATE against a locked row.
	lock.Lock()
	tx.held = append(tx.held, lock)

	tx.store.mu.Lock()
	train := tx.store.trains[trainID]
	tx.store.mu.Unlock()
	return &train, nil
}

func (tx *memTx) FindBooking(ctx context.Context, trainID int64, seatNumber int) (*database.Booking, error) {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for _, b := range tx.store.bookings {
		if b.TrainID == trainID && b.SeatNumber == seatNumber {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (tx *memTx) InsertBooking(ctx context.Context, booking *database.Booking) error {
	booking.CreatedAt = time.Now()
	tx.inserted = append(tx.inserted, booking)
	return nil
}

func (tx *memTx) SaveTrain(ctx context.Context, train *database.Train) error {
	if tx.store.failSaveTrain {
		return errors.New("connection reset by peer")
	}
	tx.savedTrains[train.ID] = *train
	return nil
}

func (tx *memTx) Commit(ctx context.Context) error {
	if tx.store.failCommit {
		tx.release()
		return errors.New("commit failed: store unavailable")
	}

	// Staged writes become visible before the row lock is released, as a
	// real commit would make them.
	tx.store.mu.Lock()
	for _, b := range tx.inserted {
		tx.store.nextID++
		b.ID = tx.store.nextID
		tx.store.bookings = append(tx.store.bookings, *b)
	}
	for id, train := range tx.savedTrains {
		tx.store.trains[id] = train
	}
	tx.store.mu.Unlock()

	tx.release()
	return nil
}

func (tx *memTx) Rollback(ctx context.Context) error {
	tx.release()
	tx.inserted = nil
	tx.savedTrains = make(map[int64]database.Train)
	return nil
}

func (tx *memTx) release() {
	if tx.closed {
		return
	}
	tx.closed = true
	for _, lock := range tx.held {
		lock.Unlock()
	}
	tx.held = nil
}

func TestReserve_Success(t *testing.T) {
	store := newMemStore()
	store.addTrain(1, 10, 10)
	engine := NewEngine(store)

	booking, err := engine.Reserve(context.Background(), 42, 1, 3)

	require.NoError(t, err)
	assert.NotZero(t, booking.ID)
	assert.NotEqual(t, uuid.Nil, booking.BookingRef)
	assert.Equal(t, int64(42), booking.UserID)
	assert.Equal(t, int64(1), booking.TrainID)
	assert.Equal(t, 3, booking.SeatNumber)

	assert.Equal(t, 9, store.train(1).AvailableSeats)
	store.checkCounterInvariant(t, 1)
}

func TestReserve_TrainNotFound(t *testing.T) {
	store := newMemStore()
	engine := NewEngine(store)

	booking, err := engine.Reserve(context.Background(), 42, 99, 1)

	assert.ErrorIs(t, err, ErrTrainNotFound)
	assert.Nil(t, booking)
}

func TestReserve_NoAvailableSeats(t *testing.T) {
	store := newMemStore()
	store.addTrain(1, 10, 0)
	engine := NewEngine(store)

	booking, err := engine.Reserve(context.Background(), 42, 1, 5)

	assert.ErrorIs(t, err, ErrNoAvailableSeats)
	assert.Nil(t, booking)
	assert.Equal(t, 0, store.bookingCount(1))
	assert.Equal(t, 0, store.train(1).AvailableSeats)
}

func TestReserve_SeatAlreadyBooked(t *testing.T) {
	store := newMemStore()
	store.addTrain(1, 10, 9)
	store.addBooking(7, 1, 4)
	engine := NewEngine(store)

	booking, err := engine.Reserve(context.Background(), 42, 1, 4)

	assert.ErrorIs(t, err, ErrSeatAlreadyBooked)
	assert.Nil(t, booking)
	assert.Equal(t, 9, store.train(1).AvailableSeats)
	assert.Equal(t, 1, store.bookingCount(1))
}

func TestReserve_SeatOutOfRange(t *testing.T) {
	store := newMemStore()
	store.addTrain(1, 10, 10)
	engine := NewEngine(store)

	tests := []struct {
		name       string
		seatNumber int
	}{
		{name: "zero", seatNumber: 0},
		{name: "negative", seatNumber: -3},
		{name: "beyond capacity", seatNumber: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking, err := engine.Reserve(context.Background(), 42, 1, tt.seatNumber)
			assert.ErrorIs(t, err, ErrSeatOutOfRange)
			assert.Nil(t, booking)
		})
	}

	assert.Equal(t, 10, store.train(1).AvailableSeats)
	assert.Equal(t, 0, store.bookingCount(1))
}

func TestReserve_RollbackOnStoreFailure(t *testing.T) {
	// Failure injected between the booking insert and the counter update:
	// neither the booking nor the decrement may become visible.
	store := newMemStore()
	store.addTrain(1, 10, 10)
	store.failSaveTrain = true
	engine := NewEngine(store)

	booking, err := engine.Reserve(context.Background(), 42, 1, 1)

	assert.ErrorIs(t, err, ErrTransactionFailed)
	assert.Nil(t, booking)
	assert.Equal(t, 0, store.bookingCount(1))
	assert.Equal(t, 10, store.train(1).AvailableSeats)
}

func TestReserve_CommitFailure(t *testing.T) {
	store := newMemStore()
	store.addTrain(1, 10, 10)
	store.failCommit = true
	engine := NewEngine(store)

	booking, err := engine.Reserve(context.Background(), 42, 1, 1)

	assert.ErrorIs(t, err, ErrTransactionFailed)
	assert.Nil(t, booking)
	assert.Equal(t, 0, store.bookingCount(1))
	assert.Equal(t, 10, store.train(1).AvailableSeats)
}

func TestReserve_ConcurrentSameSeat(t *testing.T) {
	const racers = 16

	store := newMemStore()
	store.addTrain(1, 100, 100)
	engine := NewEngine(store)

	results := make(chan error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := engine.Reserve(context.Background(), userID, 1, 7)
			results <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSeatAlreadyBooked):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes, "exactly one racer may win the seat")
	assert.Equal(t, racers-1, conflicts)
	assert.Equal(t, 99, store.train(1).AvailableSeats)
	store.checkCounterInvariant(t, 1)
}

func TestReserve_CapacityExhaustion(t *testing.T) {
	// Two racers per seat on a 5-seat train: exactly total_seats calls may
	// succeed; every loser sees either the seat conflict or, once the counter
	// hits zero, the sold-out error. Never a corrupted counter.
	const totalSeats = 5
	const callers = 2 * totalSeats

	store := newMemStore()
	store.addTrain(1, totalSeats, totalSeats)
	engine := NewEngine(store)

	results := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(userID int64, seat int) {
			defer wg.Done()
			_, err := engine.Reserve(context.Background(), userID, 1, seat)
			results <- err
		}(int64(i+1), i%totalSeats+1)
	}
	wg.Wait()
	close(results)

	successes, failures := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSeatAlreadyBooked) || errors.Is(err, ErrNoAvailableSeats):
			failures++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, totalSeats, successes)
	assert.Equal(t, callers-totalSeats, failures)
	assert.Equal(t, 0, store.train(1).AvailableSeats)
	store.checkCounterInvariant(t, 1)

	// The train is now full; on a consistent store every valid seat is
	// booked, so further attempts fail as conflicts.
	_, err := engine.Reserve(context.Background(), 99, 1, 3)
	assert.ErrorIs(t, err, ErrSeatAlreadyBooked)
	store.checkCounterInvariant(t, 1)
}

func TestReserve_TwoRacersLastSeat(t *testing.T) {
	store := newMemStore()
	store.addTrain(1, 1, 1)
	engine := NewEngine(store)

	type result struct {
		booking *database.Booking
		err     error
	}

	results := make(chan result, 2)
	var wg sync.WaitGroup
	for _, userID := range []int64{100, 200} {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			b, err := engine.Reserve(context.Background(), userID, 1, 1)
			results <- result{booking: b, err: err}
		}(userID)
	}
	wg.Wait()
	close(results)

	var winners []*database.Booking
	conflicts := 0
	for r := range results {
		if r.err == nil {
			winners = append(winners, r.booking)
		} else {
			require.ErrorIs(t, r.err, ErrSeatAlreadyBooked)
			conflicts++
		}
	}

	require.Len(t, winners, 1)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, 1, winners[0].SeatNumber)
	assert.Equal(t, 0, store.train(1).AvailableSeats)
	store.checkCounterInvariant(t, 1)
}
