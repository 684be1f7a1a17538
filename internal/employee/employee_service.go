package employee

import (
	"context"
	"encoding/json"
	"time"

	employeeerrors "go-garage/internal/employee/errors"
	"go-garage/internal/events"
	"go-garage/internal/garageauth"
	"go-garage/internal/shared/apperror"
	"go-garage/internal/shared/contextutil"
	"go-garage/internal/shared/saga"
	"go-garage/internal/user"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	EmployeeListKeyPrefix = "employees:garage:"

	defaultCacheTTL = time.Hour

	stepCreateUser        = "create_user"
	stepCreateAuthMapping = "create_auth_mapping"
)

func GetEmployeeListKey(garageUID string) string {
	return EmployeeListKeyPrefix + garageUID
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	ListByParent(ctx context.Context, parentUserUID string) ([]EmployeeResponse, error)
	GetByUID(ctx context.Context, userUID string) (EmployeeResponse, error)
}

type Options struct {
	// SanitizeNames strips control characters and markup from first and
	// last names before they are stored. Off by default: names are stored
	// exactly as received.
	SanitizeNames bool
	CacheTTL      time.Duration
}

type service struct {
	users     user.Repository
	auths     garageauth.Repository
	guard     LoginIDGuard
	policy    ProvisionPolicy
	publisher EventPublisher
	rdb       *redis.Client
	sf        *singleflight.Group
	opts      Options
	logger    *zap.Logger
}

// NewService wires the provisioning service. A nil guard falls back to the
// precheck strategy, a nil policy to AllowAll, a nil publisher to a no-op and
// a nil rdb disables list caching.
func NewService(
	users user.Repository,
	auths garageauth.Repository,
	guard LoginIDGuard,
	policy ProvisionPolicy,
	publisher EventPublisher,
	rdb *redis.Client,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if guard == nil {
		guard = &precheckGuard{users: users}
	}
	if policy == nil {
		policy = AllowAll{}
	}
	if publisher == nil {
		publisher = noopEventPublisher{}
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	return &service{
		users:     users,
		auths:     auths,
		guard:     guard,
		policy:    policy,
		publisher: publisher,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		opts:      opts,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger).With(zap.String("parent_user_uid", req.ParentUserUID))
	log.Debug("create employee requested", zap.String("request_id", rid), zap.String("user_role", req.UserRole))

	if s.opts.SanitizeNames {
		req.FirstName = SanitizeName(req.FirstName)
		req.LastName = SanitizeName(req.LastName)
	}

	if err := validateCreateRequest(req); err != nil {
		log.Debug("create employee rejected", zap.Error(err))
		return EmployeeResponse{}, err
	}

	parent, err := s.users.FindActiveByUID(ctx, req.ParentUserUID)
	if err != nil {
		if isNotFound(err) {
			log.Warn("create employee parent not found")
			return EmployeeResponse{}, employeeerrors.ErrParentUserNotFound
		}
		log.Error("create employee parent lookup failed", zap.Error(err))
		return EmployeeResponse{}, apperror.ErrInternal.WithCause(err)
	}

	caller := contextutil.GetCaller(ctx)
	allowed, err := s.policy.CanProvisionUnder(ctx, caller, parent)
	if err != nil {
		log.Error("create employee policy check failed", zap.Error(err))
		return EmployeeResponse{}, apperror.ErrInternal.WithCause(err)
	}
	if !allowed {
		log.Warn("create employee denied by policy",
			zap.String("caller_user_id", caller.UserID),
			zap.String("caller_role", caller.Role),
		)
		return EmployeeResponse{}, employeeerrors.ErrProvisionForbidden
	}

	loginID := DeriveLoginID(req.FirstName, req.LastName, parent.GarageName)
	log = log.With(zap.String("login_id", loginID))

	if err := s.guard.BeforeInsert(ctx, loginID); err != nil {
		log.Warn("create employee login id rejected", zap.Error(err))
		return EmployeeResponse{}, err
	}

	parentUID := parent.UserUID
	u := &user.User{
		ParentUserUID: &parentUID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
		UserRole:      req.UserRole,
		LoginID:       loginID,
		GarageUID:     parent.GarageUID,
		GarageID:      parent.GarageID,
		GarageName:    parent.GarageName,
		IsActive:      true,
	}

	outcome := saga.Run(ctx,
		saga.Step{
			Name:   stepCreateUser,
			Action: func(ctx context.Context) error { return s.users.Create(ctx, u) },
			Compensate: func(ctx context.Context) error {
				return s.users.Delete(ctx, u.UserUID)
			},
		},
		saga.Step{
			Name: stepCreateAuthMapping,
			Action: func(ctx context.Context) error {
				return s.auths.Create(ctx, &garageauth.GarageAuth{
					UserUID:       u.UserUID,
					GarageUID:     u.GarageUID,
					ParentUserUID: parentUID,
					LoginID:       loginID,
				})
			},
		},
	)

	switch outcome.Kind {
	case saga.OutcomeCompleted:
	case saga.OutcomeFailed:
		log.Error("create employee persist user failed", zap.Error(outcome.Cause))
		return EmployeeResponse{}, s.guard.TranslateInsertError(outcome.Cause)
	case saga.OutcomeCompensated:
		log.Error("create employee auth mapping failed, user rolled back",
			zap.String("user_uid", u.UserUID.String()),
			zap.Error(outcome.Cause),
		)
		return EmployeeResponse{}, employeeerrors.ErrCreateAuthRecordFailed.WithCause(outcome.Cause)
	default:
		s.reportOrphan(ctx, log, u, outcome)
		return EmployeeResponse{}, employeeerrors.ErrCreateAuthRecordFailed.WithCause(outcome.Cause)
	}

	s.invalidateList(ctx, log, u.GarageUID)

	if err := s.publisher.EmployeeProvisioned(ctx, events.EmployeeProvisionedEvent{
		EventType:     events.EventTypeEmployeeProvisioned,
		RequestID:     rid,
		UserUID:       u.UserUID.String(),
		ParentUserUID: parentUID.String(),
		GarageUID:     u.GarageUID,
		LoginID:       loginID,
		UserRole:      u.UserRole,
		OccurredAt:    time.Now().UTC(),
	}); err != nil {
		log.Error("create employee outbox persist failed", zap.Error(err))
	}

	log.Info("create employee success", zap.String("user_uid", u.UserUID.String()))
	return mapToResponse(*u), nil
}

// reportOrphan logs a user row that has no auth mapping and could not be
// deleted, and queues it for the reconciler.
func (s *service) reportOrphan(ctx context.Context, log *zap.Logger, u *user.User, outcome saga.Outcome) {
	log.Warn("create employee left orphaned user",
		zap.String("user_uid", u.UserUID.String()),
		zap.String("outcome", string(outcome.Kind)),
		zap.Strings("unreverted", outcome.Unreverted),
		zap.NamedError("cause", outcome.Cause),
		zap.NamedError("compensation_error", outcome.CompensationErr),
	)

	err := s.publisher.UserOrphaned(ctx, events.UserOrphanedEvent{
		EventType:         events.EventTypeUserOrphaned,
		RequestID:         contextutil.GetRequestID(ctx),
		UserUID:           u.UserUID.String(),
		GarageUID:         u.GarageUID,
		LoginID:           u.LoginID,
		Cause:             errString(outcome.Cause),
		CompensationError: errString(outcome.CompensationErr),
		OccurredAt:        time.Now().UTC(),
	})
	if err != nil {
		log.Error("orphaned user outbox persist failed", zap.Error(err))
	}
}

func (s *service) invalidateList(ctx context.Context, log *zap.Logger, garageUID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeListKey(garageUID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		log.Error("failed to invalidate employee list cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func (s *service) ListByParent(ctx context.Context, parentUserUID string) ([]EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("list employees requested", zap.String("parent_user_uid", parentUserUID))

	parent, err := s.users.FindActiveByUID(ctx, parentUserUID)
	if err != nil {
		if isNotFound(err) {
			return nil, employeeerrors.ErrParentUserNotFound
		}
		log.Error("list employees parent lookup failed", zap.Error(err))
		return nil, apperror.ErrInternal.WithCause(err)
	}

	all, err := s.garageUsers(ctx, parent.GarageUID)
	if err != nil {
		log.Error("list employees failed", zap.Error(err))
		return nil, err
	}

	parentUID := parent.UserUID.String()
	resp := make([]EmployeeResponse, 0, len(all))
	for _, e := range all {
		if e.UserUID != parentUID {
			resp = append(resp, e)
		}
	}
	return resp, nil
}

// garageUsers returns every active user of a garage, read through Redis.
func (s *service) garageUsers(ctx context.Context, garageUID string) ([]EmployeeResponse, error) {
	cacheKey := GetEmployeeListKey(garageUID)

	// 1. Cek Redis
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// 2. Singleflight: satu query DB untuk request yang datang bersamaan
	// Callers joined to this fill must not fail because the first one left.
	fillCtx := context.WithoutCancel(ctx)
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		users, err := s.users.ListActiveByGarage(fillCtx, garageUID)
		if err != nil {
			return nil, apperror.ErrInternal.WithCause(err)
		}

		resp := mapToListResponse(users)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(fillCtx, cacheKey, jsonData, s.opts.CacheTTL).Err(); err != nil {
					s.logger.Warn("employee list cache fill failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByUID(ctx context.Context, userUID string) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("get employee requested", zap.String("user_uid", userUID))

	u, err := s.users.FindByUID(ctx, userUID)
	if err != nil {
		if isNotFound(err) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		log.Error("get employee failed", zap.Error(err))
		return EmployeeResponse{}, apperror.ErrInternal.WithCause(err)
	}

	return mapToResponse(*u), nil
}

func mapToResponse(u user.User) EmployeeResponse {
	return EmployeeResponse{
		UserUID:     uuidToString(u.UserUID),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		LoginID:     u.LoginID,
		UserRole:    u.UserRole,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		GarageUID:   u.GarageUID,
		GarageID:    u.GarageID,
		GarageName:  u.GarageName,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func mapToListResponse(users []user.User) []EmployeeResponse {
	res := make([]EmployeeResponse, len(users))
	for i, u := range users {
		res[i] = mapToResponse(u)
	}
	return res
}

func uuidToString(v uuid.UUID) string {
	if v == uuid.Nil {
		return ""
	}
	return v.String()
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
