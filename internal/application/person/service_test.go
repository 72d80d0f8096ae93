package person

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/organizer-api/internal/domain"
	"github.com/organizer-api/internal/pkg/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPersonStore struct{ mock.Mock }

func (m *mockPersonStore) Put(ctx context.Context, p *domain.Person) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockPersonStore) Get(ctx context.Context, personID string) (*domain.Person, error) {
	args := m.Called(ctx, personID)
	if p, _ := args.Get(0).(*domain.Person); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockPersonStore) List(ctx context.Context) ([]domain.Person, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Person), args.Error(1)
}
func (m *mockPersonStore) Update(ctx context.Context, personID string, updates map[string]interface{}) error {
	return m.Called(ctx, personID, updates).Error(0)
}
func (m *mockPersonStore) Delete(ctx context.Context, personID string) error {
	return m.Called(ctx, personID).Error(0)
}

type mockReminderStore struct{ mock.Mock }

func (m *mockReminderStore) ListByPerson(ctx context.Context, personID string) ([]domain.Reminder, error) {
	args := m.Called(ctx, personID)
	return args.Get(0).([]domain.Reminder), args.Error(1)
}
func (m *mockReminderStore) ClearPerson(ctx context.Context, reminderID string) error {
	return m.Called(ctx, reminderID).Error(0)
}

type mockNoteStore struct{ mock.Mock }

func (m *mockNoteStore) ListByPerson(ctx context.Context, personID string) ([]domain.Note, error) {
	args := m.Called(ctx, personID)
	return args.Get(0).([]domain.Note), args.Error(1)
}
func (m *mockNoteStore) ClearPerson(ctx context.Context, noteID string) error {
	return m.Called(ctx, noteID).Error(0)
}

type mockScheduler struct{ mock.Mock }

func (m *mockScheduler) ScheduleReminder(ctx context.Context, r *domain.Reminder, now time.Time) error {
	return m.Called(ctx, r, now).Error(0)
}
func (m *mockScheduler) RescheduleReminder(ctx context.Context, r *domain.Reminder, now time.Time) error {
	return m.Called(ctx, r, now).Error(0)
}
func (m *mockScheduler) CancelReminder(ctx context.Context, r *domain.Reminder) error {
	return m.Called(ctx, r).Error(0)
}
func (m *mockScheduler) CancelReminders(ctx context.Context, rs []domain.Reminder) error {
	return m.Called(ctx, rs).Error(0)
}

func newSvc(ps *mockPersonStore, rs *mockReminderStore, ns *mockNoteStore, sched *mockScheduler) Service {
	return NewService(ps, rs, ns, sched, slog.Default())
}

const alicePersonID = "01J0000000000000000000PERS"

func TestCreate_AssignsIdentifier(t *testing.T) {
	ps, rs, ns, sched := &mockPersonStore{}, &mockReminderStore{}, &mockNoteStore{}, &mockScheduler{}
	ps.On("Put", mock.Anything, mock.AnythingOfType("*domain.Person")).Return(nil)

	p, err := newSvc(ps, rs, ns, sched).Create(context.Background(), domain.CreatePersonRequest{
		DisplayName: "Alice Smith",
	})

	require.NoError(t, err)
	assert.True(t, id.Valid(p.PersonID))
	assert.Equal(t, "Alice Smith", p.DisplayName)
}

func TestCreate_BadBirthday(t *testing.T) {
	ps, rs, ns, sched := &mockPersonStore{}, &mockReminderStore{}, &mockNoteStore{}, &mockScheduler{}
	bd := "March 5th"

	_, err := newSvc(ps, rs, ns, sched).Create(context.Background(), domain.CreatePersonRequest{
		DisplayName: "Alice Smith",
		Birthday:    &bd,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	ps.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestDelete_DetachesAndCancelsInBulk(t *testing.T) {
	ps, rs, ns, sched := &mockPersonStore{}, &mockReminderStore{}, &mockNoteStore{}, &mockScheduler{}
	linked := []domain.Reminder{
		{ReminderID: "01J00000000000000000000AAA", NotificationID: "01J00000000000000000000NA1"},
		{ReminderID: "01J00000000000000000000BBB", NotificationID: "01J00000000000000000000NB2"},
	}
	notes := []domain.Note{{NoteID: "01J00000000000000000000CCC"}}

	ps.On("Get", mock.Anything, alicePersonID).Return(&domain.Person{PersonID: alicePersonID}, nil)
	rs.On("ListByPerson", mock.Anything, alicePersonID).Return(linked, nil)
	rs.On("ClearPerson", mock.Anything, linked[0].ReminderID).Return(nil)
	rs.On("ClearPerson", mock.Anything, linked[1].ReminderID).Return(nil)
	sched.On("CancelReminders", mock.Anything, linked).Return(nil)
	ns.On("ListByPerson", mock.Anything, alicePersonID).Return(notes, nil)
	ns.On("ClearPerson", mock.Anything, notes[0].NoteID).Return(nil)
	ps.On("Delete", mock.Anything, alicePersonID).Return(nil)

	err := newSvc(ps, rs, ns, sched).Delete(context.Background(), alicePersonID)

	require.NoError(t, err)
	rs.AssertNumberOfCalls(t, "ClearPerson", 2)
	sched.AssertNumberOfCalls(t, "CancelReminders", 1)
	ps.AssertCalled(t, "Delete", mock.Anything, alicePersonID)
}

func TestDelete_CancelFailureDoesNotFailDelete(t *testing.T) {
	ps, rs, ns, sched := &mockPersonStore{}, &mockReminderStore{}, &mockNoteStore{}, &mockScheduler{}
	linked := []domain.Reminder{{ReminderID: "01J00000000000000000000AAA"}}

	ps.On("Get", mock.Anything, alicePersonID).Return(&domain.Person{PersonID: alicePersonID}, nil)
	rs.On("ListByPerson", mock.Anything, alicePersonID).Return(linked, nil)
	rs.On("ClearPerson", mock.Anything, mock.Anything).Return(nil)
	sched.On("CancelReminders", mock.Anything, mock.Anything).Return(errors.New("platform down"))
	ns.On("ListByPerson", mock.Anything, alicePersonID).Return([]domain.Note{}, nil)
	ps.On("Delete", mock.Anything, alicePersonID).Return(nil)

	err := newSvc(ps, rs, ns, sched).Delete(context.Background(), alicePersonID)

	require.NoError(t, err)
	ps.AssertCalled(t, "Delete", mock.Anything, alicePersonID)
}

func TestDelete_UnknownPerson(t *testing.T) {
	ps, rs, ns, sched := &mockPersonStore{}, &mockReminderStore{}, &mockNoteStore{}, &mockScheduler{}
	ps.On("Get", mock.Anything, alicePersonID).Return(nil, domain.ErrNotFound)

	err := newSvc(ps, rs, ns, sched).Delete(context.Background(), alicePersonID)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	rs.AssertNotCalled(t, "ListByPerson", mock.Anything, mock.Anything)
}
