package employee_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"go-garage/internal/config"
	"go-garage/internal/employee"
	employeeerrors "go-garage/internal/employee/errors"
	"go-garage/internal/events"
	"go-garage/internal/garageauth"
	garageauthMock "go-garage/internal/garageauth/mock"
	"go-garage/internal/messaging/kafka"
	kafkaMock "go-garage/internal/messaging/kafka/mock"
	"go-garage/internal/shared/apperror"
	"go-garage/internal/shared/contextutil"
	"go-garage/internal/user"
	userMock "go-garage/internal/user/mock"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

var fixedTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

type serviceDeps struct {
	service   employee.Service
	users     *userMock.MockRepository
	auths     *garageauthMock.MockRepository
	outbox    *kafkaMock.MockOutboxRepository
	redismock redismock.ClientMock
}

type setupOpts struct {
	strategy string
	policy   employee.ProvisionPolicy
	opts     employee.Options
	noRedis  bool
}

func setupServiceTest(t *testing.T, so setupOpts) *serviceDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	users := userMock.NewMockRepository(ctrl)
	auths := garageauthMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	var (
		rdb       *redis.Client
		redisMock redismock.ClientMock
	)
	if !so.noRedis {
		rdb, redisMock = redismock.NewClientMock()
	}

	guard, err := employee.NewLoginIDGuard(so.strategy, users)
	require.NoError(t, err)

	svc := employee.NewService(users, auths, guard, so.policy,
		employee.NewOutboxEventPublisher(outboxRepo), rdb, so.opts)

	return &serviceDeps{
		service:   svc,
		users:     users,
		auths:     auths,
		outbox:    outboxRepo,
		redismock: redisMock,
	}
}

func newParent(garageName string) *user.User {
	return &user.User{
		UserUID:    uuid.New(),
		FirstName:  "Owner",
		LastName:   "One",
		UserRole:   "owner",
		LoginID:    "owner.one@testgarage",
		GarageUID:  "garage-uid-1",
		GarageID:   "GAR-001",
		GarageName: garageName,
		IsActive:   true,
		CreatedAt:  fixedTime,
		UpdatedAt:  fixedTime,
	}
}

func validRequest(parentUID string) employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		FirstName:     "John",
		LastName:      "Doe",
		UserRole:      "mechanic",
		Email:         "john.doe@example.com",
		PhoneNumber:   "+1234567890",
		ParentUserUID: parentUID,
	}
}

// expectPersist sets up a successful user insert followed by a successful
// auth mapping insert and returns the uid assigned to the new user.
func expectPersist(t *testing.T, deps *serviceDeps, wantLoginID string) uuid.UUID {
	t.Helper()
	newUID := uuid.New()

	gomock.InOrder(
		deps.users.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				assert.Equal(t, wantLoginID, u.LoginID)
				assert.True(t, u.IsActive)
				u.UserUID = newUID
				u.CreatedAt = fixedTime
				u.UpdatedAt = fixedTime
				return nil
			}),
		deps.auths.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ga *garageauth.GarageAuth) error {
				assert.Equal(t, newUID, ga.UserUID)
				assert.Equal(t, "garage-uid-1", ga.GarageUID)
				return nil
			}),
	)
	return newUID
}

func assertAppError(t *testing.T, err error, want *apperror.AppError) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, want)
	httpErr := apperror.ToHTTP(err)
	assert.Equal(t, want.HTTPStatus, httpErr.Status)
	assert.Equal(t, want.Message, httpErr.Message)
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "rid-1")

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{})
		parent := newParent("Test Garage")
		req := validRequest(parent.UserUID.String())

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), req.ParentUserUID).Return(parent, nil)
		deps.users.EXPECT().ExistsByLoginID(gomock.Any(), "john.doe@testgarage").Return(false, nil)
		newUID := expectPersist(t, deps, "john.doe@testgarage")
		deps.redismock.ExpectDel(employee.GetEmployeeListKey("garage-uid-1")).SetVal(1)
		deps.outbox.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ev kafka.OutboxEvent) error {
				assert.Equal(t, events.EmployeeLifecycleTopic, ev.Topic)
				assert.Equal(t, events.EventTypeEmployeeProvisioned, ev.EventType)
				assert.Equal(t, newUID.String(), ev.AggregateID)
				assert.Equal(t, "rid-1", ev.RequestID)

				var payload events.EmployeeProvisionedEvent
				require.NoError(t, json.Unmarshal(ev.Payload, &payload))
				assert.Equal(t, parent.UserUID.String(), payload.ParentUserUID)
				assert.Equal(t, "john.doe@testgarage", payload.LoginID)
				return nil
			})

		resp, err := deps.service.Create(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, newUID.String(), resp.UserUID)
		assert.Equal(t, "john.doe@testgarage", resp.LoginID)
		assert.Equal(t, "John", resp.FirstName)
		assert.Equal(t, "Doe", resp.LastName)
		assert.Equal(t, "mechanic", resp.UserRole)
		assert.Equal(t, "john.doe@example.com", resp.Email)
		assert.Equal(t, "+1234567890", resp.PhoneNumber)
		assert.Equal(t, "garage-uid-1", resp.GarageUID)
		assert.Equal(t, "GAR-001", resp.GarageID)
		assert.Equal(t, "Test Garage", resp.GarageName)
		assert.True(t, resp.IsActive)
		assert.Equal(t, fixedTime, resp.CreatedAt)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("login id derivation", func(t *testing.T) {
		tests := []struct {
			name       string
			firstName  string
			lastName   string
			garageName string
			want       string
		}{
			{"apostrophe preserved", "O'Neil", "Doe", "Test Garage", "o'neil.doe@testgarage"},
			{"digits in garage name", "John", "Doe", "Garage 123", "john.doe@garage123"},
			{"inner spaces removed", "Mary  Ann", " Van Der Berg ", "Test Garage", "maryann.vanderberg@testgarage"},
			{"empty garage name", "John", "Doe", "", "john.doe@"},
			{"non-ascii kept", "José", "Müller", "Garáge Ñ", "josé.müller@garágeñ"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				deps := setupServiceTest(t, setupOpts{noRedis: true})
				parent := newParent(tt.garageName)
				req := validRequest(parent.UserUID.String())
				req.FirstName = tt.firstName
				req.LastName = tt.lastName

				deps.users.EXPECT().FindActiveByUID(gomock.Any(), gomock.Any()).Return(parent, nil)
				deps.users.EXPECT().ExistsByLoginID(gomock.Any(), tt.want).Return(false, nil)
				expectPersist(t, deps, tt.want)
				deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

				resp, err := deps.service.Create(ctx, req)

				require.NoError(t, err)
				assert.Equal(t, tt.want, resp.LoginID)
				assert.Equal(t, tt.firstName, resp.FirstName)
			})
		}
	})

	t.Run("names are stored verbatim by default", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{noRedis: true})
		parent := newParent("Test Garage")
		req := validRequest(parent.UserUID.String())
		req.FirstName = "<script>alert(1)</script>"
		req.LastName = "Robert'); DROP TABLE users;--"
		want := "<script>alert(1)</script>.robert');droptableusers;--@testgarage"

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), gomock.Any()).Return(parent, nil)
		deps.users.EXPECT().ExistsByLoginID(gomock.Any(), want).Return(false, nil)
		expectPersist(t, deps, want)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := deps.service.Create(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, req.FirstName, resp.FirstName)
		assert.Equal(t, req.LastName, resp.LastName)
	})

	t.Run("names are sanitized when enabled", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{noRedis: true, opts: employee.Options{SanitizeNames: true}})
		parent := newParent("Test Garage")
		req := validRequest(parent.UserUID.String())
		req.FirstName = "Jo\u200bhn<b>;"
		req.LastName = "O'Neil-Smith\x00"

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), gomock.Any()).Return(parent, nil)
		deps.users.EXPECT().ExistsByLoginID(gomock.Any(), "johnb.o'neil-smith@testgarage").Return(false, nil)
		expectPersist(t, deps, "johnb.o'neil-smith@testgarage")
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := deps.service.Create(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, "Johnb", resp.FirstName)
		assert.Equal(t, "O'Neil-Smith", resp.LastName)
	})

	t.Run("validation never touches the store", func(t *testing.T) {
		parentUID := uuid.NewString()
		tests := []struct {
			name   string
			mutate func(r *employee.CreateEmployeeRequest)
			want   *apperror.AppError
		}{
			{"missing first name", func(r *employee.CreateEmployeeRequest) { r.FirstName = "" }, employeeerrors.ErrAllFieldsRequired},
			{"blank first name", func(r *employee.CreateEmployeeRequest) { r.FirstName = "   " }, employeeerrors.ErrAllFieldsRequired},
			{"blank last name", func(r *employee.CreateEmployeeRequest) { r.LastName = "\t" }, employeeerrors.ErrAllFieldsRequired},
			{"missing role", func(r *employee.CreateEmployeeRequest) { r.UserRole = "" }, employeeerrors.ErrAllFieldsRequired},
			{"missing email", func(r *employee.CreateEmployeeRequest) { r.Email = "" }, employeeerrors.ErrAllFieldsRequired},
			{"missing phone", func(r *employee.CreateEmployeeRequest) { r.PhoneNumber = "" }, employeeerrors.ErrAllFieldsRequired},
			{"missing parent", func(r *employee.CreateEmployeeRequest) { r.ParentUserUID = "" }, employeeerrors.ErrParentUserUIDRequired},
			{"all fields win over parent", func(r *employee.CreateEmployeeRequest) {
				r.Email = ""
				r.ParentUserUID = ""
			}, employeeerrors.ErrAllFieldsRequired},
			{"email without at", func(r *employee.CreateEmployeeRequest) { r.Email = "john.example.com" }, employeeerrors.ErrInvalidEmail},
			{"email double at", func(r *employee.CreateEmployeeRequest) { r.Email = "john@@example.com" }, employeeerrors.ErrInvalidEmail},
			{"email leading dot domain", func(r *employee.CreateEmployeeRequest) { r.Email = "john@.example.com" }, employeeerrors.ErrInvalidEmail},
			{"email trailing dot domain", func(r *employee.CreateEmployeeRequest) { r.Email = "john@example.com." }, employeeerrors.ErrInvalidEmail},
			{"email consecutive dots", func(r *employee.CreateEmployeeRequest) { r.Email = "john@example..com" }, employeeerrors.ErrInvalidEmail},
			{"email with space", func(r *employee.CreateEmployeeRequest) { r.Email = "john doe@example.com" }, employeeerrors.ErrInvalidEmail},
			{"email script domain", func(r *employee.CreateEmployeeRequest) { r.Email = "<script>alert(1)</script>@example" }, employeeerrors.ErrInvalidEmail},
			{"invalid email checked before phone", func(r *employee.CreateEmployeeRequest) {
				r.Email = "nope"
				r.PhoneNumber = "abc"
			}, employeeerrors.ErrInvalidEmail},
			{"phone too short", func(r *employee.CreateEmployeeRequest) { r.PhoneNumber = "123456789" }, employeeerrors.ErrInvalidPhone},
			{"phone too long", func(r *employee.CreateEmployeeRequest) { r.PhoneNumber = "1234567890123456" }, employeeerrors.ErrInvalidPhone},
			{"phone letters", func(r *employee.CreateEmployeeRequest) { r.PhoneNumber = "+1 555 CALL NOW" }, employeeerrors.ErrInvalidPhone},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				// Any store call fails the test through gomock.
				deps := setupServiceTest(t, setupOpts{noRedis: true})
				req := validRequest(parentUID)
				tt.mutate(&req)

				_, err1 := deps.service.Create(ctx, req)
				_, err2 := deps.service.Create(ctx, req)

				assertAppError(t, err1, tt.want)
				assert.Equal(t, err1, err2)
			})
		}
	})

	t.Run("parent not found", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{noRedis: true})
		req := validRequest("not-a-uuid")

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), "not-a-uuid").Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Create(ctx, req)

		assertAppError(t, err, employeeerrors.ErrParentUserNotFound)
	})

	t.Run("parent lookup failure is internal", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{noRedis: true})
		req := validRequest(uuid.NewString())

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

		_, err := deps.service.Create(ctx, req)

		assertAppError(t, err, apperror.ErrInternal)
		assert.Equal(t, "connection refused", apperror.ToHTTP(err).Details)
	})

	t.Run("duplicate login id is a conflict", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{noRedis: true})
		parent := newParent("Test Garage")
		req := validRequest(parent.UserUID.String())

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), gomock.Any()).Return(parent, nil).Times(2)
		gomock.InOrder(
			deps.users.EXPECT().ExistsByLoginID(gomock.Any(), "john.doe@testgarage").Return(false, nil),
			deps.users.EXPECT().ExistsByLoginID(gomock.Any(), "john.doe@testgarage").Return(true, nil),
		)
		expectPersist(t, deps, "john.doe@testgarage")
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		_, err := deps.service.Create(ctx, req)
		require.NoError(t, err)

		_, err = deps.service.Create(ctx, req)
		assertAppError(t, err, employeeerrors.ErrLoginIDAlreadyExists)
	})

	t.Run("precheck: unique violation from a concurrent insert is a conflict", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{noRedis: true})
		parent := newParent("Test Garage")
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_users_login_id"}

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), gomock.Any()).Return(parent, nil)
		deps.users.EXPECT().ExistsByLoginID(gomock.Any(), gomock.Any()).Return(false, nil)
		deps.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(pgErr)

		_, err := deps.service.Create(ctx, validRequest(parent.UserUID.String()))

		assertAppError(t, err, employeeerrors.ErrLoginIDAlreadyExists)
		assert.Equal(t, http.StatusConflict, apperror.ToHTTP(err).Status)
	})

	t.Run("precheck: other insert failure is internal", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{noRedis: true})
		parent := newParent("Test Garage")
		dbErr := errors.New("connection reset by peer")

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), gomock.Any()).Return(parent, nil)
		deps.users.EXPECT().ExistsByLoginID(gomock.Any(), gomock.Any()).Return(false, nil)
		deps.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dbErr)

		_, err := deps.service.Create(ctx, validRequest(parent.UserUID.String()))

		assertAppError(t, err, employeeerrors.ErrCreateUserFailed)
		assert.ErrorIs(t, err, dbErr)
		assert.NotEmpty(t, apperror.ToHTTP(err).Details)
	})

	t.Run("constraint: unique violation is a conflict", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{noRedis: true, strategy: config.LoginIDStrategyConstraint})
		parent := newParent("Test Garage")

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), gomock.Any()).Return(parent, nil)
		deps.users.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_users_login_id"})

		_, err := deps.service.Create(ctx, validRequest(parent.UserUID.String()))

		assertAppError(t, err, employeeerrors.ErrLoginIDAlreadyExists)
	})

	t.Run("constraint: other insert errors are internal", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{noRedis: true, strategy: config.LoginIDStrategyConstraint})
		parent := newParent("Test Garage")

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), gomock.Any()).Return(parent, nil)
		deps.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		_, err := deps.service.Create(ctx, validRequest(parent.UserUID.String()))

		assertAppError(t, err, employeeerrors.ErrCreateUserFailed)
	})

	t.Run("auth mapping failure rolls the user back", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{noRedis: true})
		parent := newParent("Test Garage")
		newUID := uuid.New()
		mappingErr := errors.New("garage_auth insert failed")

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), gomock.Any()).Return(parent, nil)
		deps.users.EXPECT().ExistsByLoginID(gomock.Any(), gomock.Any()).Return(false, nil)
		gomock.InOrder(
			deps.users.EXPECT().Create(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, u *user.User) error {
					u.UserUID = newUID
					return nil
				}),
			deps.auths.EXPECT().Create(gomock.Any(), gomock.Any()).Return(mappingErr),
			deps.users.EXPECT().Delete(gomock.Any(), newUID).Return(nil),
		)

		_, err := deps.service.Create(ctx, validRequest(parent.UserUID.String()))

		assertAppError(t, err, employeeerrors.ErrCreateAuthRecordFailed)
		assert.Equal(t, mappingErr.Error(), apperror.ToHTTP(err).Details)
	})

	t.Run("failed rollback reports an orphan", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{noRedis: true})
		parent := newParent("Test Garage")
		newUID := uuid.New()

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), gomock.Any()).Return(parent, nil)
		deps.users.EXPECT().ExistsByLoginID(gomock.Any(), gomock.Any()).Return(false, nil)
		deps.users.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				u.UserUID = newUID
				return nil
			})
		deps.auths.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("mapping failed"))
		deps.users.EXPECT().Delete(gomock.Any(), newUID).Return(errors.New("delete failed"))
		deps.outbox.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, ev kafka.OutboxEvent) error {
				assert.Equal(t, events.UserOrphanedTopic, ev.Topic)

				var payload events.UserOrphanedEvent
				require.NoError(t, json.Unmarshal(ev.Payload, &payload))
				assert.Equal(t, newUID.String(), payload.UserUID)
				assert.Equal(t, "mapping failed", payload.Cause)
				assert.Contains(t, payload.CompensationError, "delete failed")
				return nil
			})

		_, err := deps.service.Create(ctx, validRequest(parent.UserUID.String()))

		assertAppError(t, err, employeeerrors.ErrCreateAuthRecordFailed)
	})

	t.Run("policy denial", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{noRedis: true, policy: denyAll{}})
		parent := newParent("Test Garage")

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), gomock.Any()).Return(parent, nil)

		_, err := deps.service.Create(ctx, validRequest(parent.UserUID.String()))

		assertAppError(t, err, employeeerrors.ErrProvisionForbidden)
	})

	t.Run("outbox failure does not fail the request", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{})
		parent := newParent("Test Garage")

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), gomock.Any()).Return(parent, nil)
		deps.users.EXPECT().ExistsByLoginID(gomock.Any(), gomock.Any()).Return(false, nil)
		expectPersist(t, deps, "john.doe@testgarage")
		deps.redismock.ExpectDel(employee.GetEmployeeListKey("garage-uid-1")).SetErr(errors.New("redis down"))
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("outbox down"))

		resp, err := deps.service.Create(ctx, validRequest(parent.UserUID.String()))

		require.NoError(t, err)
		assert.Equal(t, "john.doe@testgarage", resp.LoginID)
	})
}

type denyAll struct{}

func (denyAll) CanProvisionUnder(context.Context, contextutil.Caller, *user.User) (bool, error) {
	return false, nil
}

func TestEmployeeService_ListByParent(t *testing.T) {
	ctx := context.Background()
	parent := newParent("Test Garage")
	mechanic := user.User{
		UserUID: uuid.New(), ParentUserUID: &parent.UserUID, FirstName: "John", LastName: "Doe",
		UserRole: "mechanic", LoginID: "john.doe@testgarage", GarageUID: "garage-uid-1",
		GarageID: "GAR-001", GarageName: "Test Garage", IsActive: true, CreatedAt: fixedTime, UpdatedAt: fixedTime,
	}
	cacheKey := employee.GetEmployeeListKey("garage-uid-1")

	toResponse := func(u user.User) employee.EmployeeResponse {
		return employee.EmployeeResponse{
			UserUID: u.UserUID.String(), FirstName: u.FirstName, LastName: u.LastName, LoginID: u.LoginID,
			UserRole: u.UserRole, Email: u.Email, PhoneNumber: u.PhoneNumber, GarageUID: u.GarageUID,
			GarageID: u.GarageID, GarageName: u.GarageName, IsActive: u.IsActive,
			CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
		}
	}

	t.Run("cache hit", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{})
		cached, _ := json.Marshal([]employee.EmployeeResponse{toResponse(*parent), toResponse(mechanic)})

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), parent.UserUID.String()).Return(parent, nil)
		deps.redismock.ExpectGet(cacheKey).SetVal(string(cached))

		resp, err := deps.service.ListByParent(ctx, parent.UserUID.String())

		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, mechanic.UserUID.String(), resp[0].UserUID)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("cache miss fills the cache", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{})
		all := []user.User{*parent, mechanic}
		filled, _ := json.Marshal([]employee.EmployeeResponse{toResponse(*parent), toResponse(mechanic)})

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), gomock.Any()).Return(parent, nil)
		deps.redismock.ExpectGet(cacheKey).RedisNil()
		deps.users.EXPECT().ListActiveByGarage(gomock.Any(), "garage-uid-1").Return(all, nil)
		deps.redismock.ExpectSet(cacheKey, filled, time.Hour).SetVal("OK")

		resp, err := deps.service.ListByParent(ctx, parent.UserUID.String())

		require.NoError(t, err)
		assert.Equal(t, []employee.EmployeeResponse{toResponse(mechanic)}, resp)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("repository error", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{noRedis: true})

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), gomock.Any()).Return(parent, nil)
		deps.users.EXPECT().ListActiveByGarage(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

		_, err := deps.service.ListByParent(ctx, parent.UserUID.String())

		assertAppError(t, err, apperror.ErrInternal)
	})

	t.Run("cache fill ignores cancellation of the requesting caller", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{noRedis: true})
		reqCtx, cancel := context.WithCancel(ctx)
		cancel()

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), gomock.Any()).Return(parent, nil)
		deps.users.EXPECT().ListActiveByGarage(gomock.Any(), "garage-uid-1").
			DoAndReturn(func(fillCtx context.Context, _ string) ([]user.User, error) {
				if err := fillCtx.Err(); err != nil {
					return nil, err
				}
				return []user.User{*parent, mechanic}, nil
			})

		resp, err := deps.service.ListByParent(reqCtx, parent.UserUID.String())

		require.NoError(t, err)
		require.Len(t, resp, 1)
	})

	t.Run("parent not found", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{noRedis: true})

		deps.users.EXPECT().FindActiveByUID(gomock.Any(), gomock.Any()).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.ListByParent(ctx, uuid.NewString())

		assertAppError(t, err, employeeerrors.ErrParentUserNotFound)
	})
}

func TestEmployeeService_GetByUID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{noRedis: true})
		parent := newParent("Test Garage")

		deps.users.EXPECT().FindByUID(gomock.Any(), parent.UserUID.String()).Return(parent, nil)

		resp, err := deps.service.GetByUID(ctx, parent.UserUID.String())

		require.NoError(t, err)
		assert.Equal(t, parent.LoginID, resp.LoginID)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t, setupOpts{noRedis: true})

		deps.users.EXPECT().FindByUID(gomock.Any(), "missing").Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByUID(ctx, "missing")

		assertAppError(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}
