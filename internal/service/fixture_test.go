package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/lab_booking/internal/model"
	"github.com/Freeeeeet/lab_booking/internal/repository/memstore"
	"github.com/Freeeeeet/lab_booking/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const kstOffsetMinutes = 9 * 60

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type fixture struct {
	store      *memstore.Store
	clock      *fixedClock
	normalizer *service.Normalizer
	svc        *service.ReservationService
	worklog    *service.WorkLogService

	microscope model.Equipment
	printer    model.Equipment
	broken     model.Equipment

	alice    model.User
	bob      model.User
	carol    model.User
	operator model.User
	other    model.User // второй оператор
	admin    model.User
}

// newFixture "сейчас" это понедельник 2025-03-10 09:00 по времени кампуса
func newFixture(t *testing.T) *fixture {
	t.Helper()

	normalizer := service.NewNormalizer(kstOffsetMinutes)
	now, err := normalizer.Parse("2025-03-10T09:00")
	require.NoError(t, err)

	f := &fixture{
		store:      memstore.New(),
		clock:      &fixedClock{now: now},
		normalizer: normalizer,
	}

	f.microscope = model.Equipment{ID: uuid.New(), Slug: "sem", Name: "Scanning Electron Microscope", IsActive: true}
	f.printer = model.Equipment{ID: uuid.New(), Slug: "3d-printer", Name: "3D Printer", IsActive: true}
	f.broken = model.Equipment{ID: uuid.New(), Slug: "laser", Name: "Laser Cutter", IsActive: false}
	for _, e := range []model.Equipment{f.microscope, f.printer, f.broken} {
		f.store.PutEquipment(e)
	}

	f.alice = newUser("alice", model.UserRoleUser)
	f.bob = newUser("bob", model.UserRoleUser)
	f.carol = newUser("carol", model.UserRoleUser)
	f.operator = newUser("op", model.UserRoleOperator)
	f.other = newUser("op2", model.UserRoleOperator)
	f.admin = newUser("root", model.UserRoleAdmin)
	for _, u := range []model.User{f.alice, f.bob, f.carol, f.operator, f.other, f.admin} {
		f.store.PutUser(u)
	}

	logger := zap.NewNop()
	validator := service.NewReservationValidator(service.DefaultValidationRules(), normalizer, f.store, f.store, f.clock)
	f.svc = service.NewReservationService(f.store, f.store, validator, f.store, f.store, f.store, normalizer, f.clock, logger)
	f.worklog = service.NewWorkLogService(f.store, normalizer, f.clock, logger)
	return f
}

func newUser(name string, role model.UserRole) model.User {
	return model.User{ID: uuid.New(), Username: name, Role: role, Status: model.UserStatusActive}
}

func actor(u model.User) service.Actor {
	return service.Actor{ID: u.ID, Role: u.Role}
}

func (f *fixture) input(u model.User, e model.Equipment, start, end string) service.CreateReservationInput {
	return service.CreateReservationInput{
		EquipmentID:  e.ID,
		RequesterID:  u.ID,
		StartAtLocal: start,
		EndAtLocal:   end,
	}
}

func (f *fixture) create(t *testing.T, in service.CreateReservationInput) uuid.UUID {
	t.Helper()
	id, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	return id
}

func (f *fixture) createApproved(t *testing.T, in service.CreateReservationInput, by model.User) uuid.UUID {
	t.Helper()
	id := f.create(t, in)
	require.NoError(t, f.svc.Approve(context.Background(), id, actor(by)))
	return id
}

func (f *fixture) get(t *testing.T, id uuid.UUID) *model.Reservation {
	t.Helper()
	r, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	return r
}

func (f *fixture) notificationsFor(u model.User, kind model.NotificationKind) []model.Notification {
	var out []model.Notification
	for _, n := range f.store.Notifications() {
		if n.UserID == u.ID && n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}
