package controllers

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/adamanr/staff_portal/internal/entity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthController_Verify(t *testing.T) {
	inactive := CreateTestEmployee()
	inactive.ItsActive = false

	tests := []struct {
		name        string
		identity    string
		password    string
		setupMocks  func(*MockDB)
		expectedErr error
	}{
		{
			name:     "valid credentials",
			identity: "Pop Ana",
			password: "an153PO!",
			setupMocks: func(mockDB *MockDB) {
				mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), "Pop", "Ana", "an153PO!").
					Return(NewMockRow(employeeRow(CreateTestEmployee()), nil))
			},
		},
		{
			name:     "extra whitespace and case are tolerated",
			identity: "  pop   ana ",
			password: "an153PO!",
			setupMocks: func(mockDB *MockDB) {
				mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), "pop", "ana", "an153PO!").
					Return(NewMockRow(employeeRow(CreateTestEmployee()), nil))
			},
		},
		{
			name:     "compound first name",
			identity: "Pop Ana Maria",
			password: "an153PO!",
			setupMocks: func(mockDB *MockDB) {
				mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), "Pop", "Ana Maria", "an153PO!").
					Return(NewMockRow(employeeRow(CreateTestEmployee()), nil))
			},
		},
		{
			name:     "wrong password",
			identity: "Pop Ana",
			password: "wrong",
			setupMocks: func(mockDB *MockDB) {
				mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), "Pop", "Ana", "wrong").
					Return(NewMockRow(nil, pgx.ErrNoRows))
			},
			expectedErr: ErrNotFound,
		},
		{
			name:     "inactive account",
			identity: "Pop Ana",
			password: "an153PO!",
			setupMocks: func(mockDB *MockDB) {
				mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), "Pop", "Ana", "an153PO!").
					Return(NewMockRow(employeeRow(inactive), nil))
			},
			expectedErr: ErrInactive,
		},
		{
			name:        "single token identity",
			identity:    "Pop",
			password:    "an153PO!",
			setupMocks:  func(mockDB *MockDB) {},
			expectedErr: ErrNotFound,
		},
		{
			name:        "empty password",
			identity:    "Pop Ana",
			password:    "",
			setupMocks:  func(mockDB *MockDB) {},
			expectedErr: ErrNotFound,
		},
		{
			name:     "database error",
			identity: "Pop Ana",
			password: "an153PO!",
			setupMocks: func(mockDB *MockDB) {
				mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), "Pop", "Ana", "an153PO!").
					Return(NewMockRow(nil, errors.New("connection refused")))
			},
			expectedErr: ErrStoreFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := &MockDB{}
			deps := CreateTestDependencies(mockDB, &MockRedis{})

			tt.setupMocks(mockDB)

			controller := NewAuthController(deps)
			employee, err := controller.Verify(context.Background(), tt.identity, tt.password)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, employee)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(1), employee.ID)
				assert.Equal(t, entity.RoleAdmin, employee.Role)
			}

			mockDB.AssertExpectations(t)
		})
	}
}

func TestAuthController_VerifyNewlyCreatedEmployee(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})

	var stored []any
	mockDB.On("QueryRow", mock.Anything, mock.MatchedBy(func(sql string) bool { return strings.HasPrefix(sql, "INSERT") }),
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything,
	).Run(func(args mock.Arguments) {
		stored = args[2:]
	}).Return(NewMockRow([]any{int64(7)}, nil)).Once()

	created, err := NewEmployeeController(deps).CreateEmployee(context.Background(), newTestEmployee())
	require.NoError(t, err)
	require.Len(t, stored, 9)

	row := []any{created.ID, stored[0], stored[1], stored[2], stored[3], stored[4], stored[5], stored[6], stored[7], stored[8]}
	mockDB.On("QueryRow", mock.Anything, mock.MatchedBy(func(sql string) bool { return strings.HasPrefix(sql, "SELECT") }),
		"Pop", "Ana", "an153PO!",
	).Return(NewMockRow(row, nil)).Once()

	employee, err := NewAuthController(deps).Verify(context.Background(), "Pop Ana", "an153PO!")
	require.NoError(t, err)
	assert.Equal(t, int64(7), employee.ID)
	assert.Equal(t, entity.RoleAdmin, employee.Role)
	assert.True(t, employee.ItsActive)

	mockDB.AssertExpectations(t)
}

func TestAuthController_SessionRoundTrip(t *testing.T) {
	mockRedis := &MockRedis{}
	deps := CreateTestDependencies(&MockDB{}, mockRedis)
	controller := NewAuthController(deps)

	var key string
	var payload []byte
	mockRedis.On("Set", mock.Anything, mock.MatchedBy(func(k string) bool { return strings.HasPrefix(k, sessionKeyPrefix) }), mock.Anything, time.Hour).
		Run(func(args mock.Arguments) {
			key = args.String(1)
			payload = args.Get(2).([]byte)
		}).
		Return(redis.NewStatusResult("OK", nil))

	emp := CreateTestEmployee()
	token, err := controller.CreateSession(context.Background(), &emp)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotContains(t, string(payload), emp.Password)

	mockRedis.On("Get", mock.Anything, key).Return(redis.NewStringResult(string(payload), nil))

	session, err := controller.GetSession(context.Background(), token)
	require.NoError(t, err)

	expected := emp
	expected.Password = ""
	assert.Equal(t, expected, *session)

	mockRedis.On("Del", mock.Anything, []string{key}).Return(redis.NewIntResult(1, nil))
	require.NoError(t, controller.DeleteSession(context.Background(), token))

	mockRedis.AssertExpectations(t)
}

func TestAuthController_CreateSession_RedisError(t *testing.T) {
	mockRedis := &MockRedis{}
	mockRedis.On("Set", mock.Anything, mock.AnythingOfType("string"), mock.Anything, time.Hour).
		Return(redis.NewStatusResult("", errors.New("redis error")))

	controller := NewAuthController(CreateTestDependencies(&MockDB{}, mockRedis))

	emp := CreateTestEmployee()
	token, err := controller.CreateSession(context.Background(), &emp)

	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.Empty(t, token)
}

func signTestToken(t *testing.T, secret string, claims entity.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func TestAuthController_GetSession(t *testing.T) {
	valid := entity.Claims{
		SessionID: "abc",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	expired := entity.Claims{
		SessionID: "abc",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}

	tests := []struct {
		name        string
		token       func(t *testing.T) string
		setupMocks  func(*MockRedis)
		expectedErr error
	}{
		{
			name:        "empty token",
			token:       func(t *testing.T) string { return "" },
			setupMocks:  func(mockRedis *MockRedis) {},
			expectedErr: ErrNoSession,
		},
		{
			name:        "garbage token",
			token:       func(t *testing.T) string { return "not-a-token" },
			setupMocks:  func(mockRedis *MockRedis) {},
			expectedErr: ErrNoSession,
		},
		{
			name:        "signed with another key",
			token:       func(t *testing.T) string { return signTestToken(t, "other-key", valid) },
			setupMocks:  func(mockRedis *MockRedis) {},
			expectedErr: ErrNoSession,
		},
		{
			name:        "expired token",
			token:       func(t *testing.T) string { return signTestToken(t, "test-secret-key", expired) },
			setupMocks:  func(mockRedis *MockRedis) {},
			expectedErr: ErrNoSession,
		},
		{
			name:  "session revoked",
			token: func(t *testing.T) string { return signTestToken(t, "test-secret-key", valid) },
			setupMocks: func(mockRedis *MockRedis) {
				mockRedis.On("Get", mock.Anything, sessionKeyPrefix+"abc").Return(redis.NewStringResult("", redis.Nil))
			},
			expectedErr: ErrNoSession,
		},
		{
			name:  "redis failure",
			token: func(t *testing.T) string { return signTestToken(t, "test-secret-key", valid) },
			setupMocks: func(mockRedis *MockRedis) {
				mockRedis.On("Get", mock.Anything, sessionKeyPrefix+"abc").Return(redis.NewStringResult("", errors.New("i/o timeout")))
			},
			expectedErr: ErrStoreFailure,
		},
		{
			name:  "corrupt payload",
			token: func(t *testing.T) string { return signTestToken(t, "test-secret-key", valid) },
			setupMocks: func(mockRedis *MockRedis) {
				mockRedis.On("Get", mock.Anything, sessionKeyPrefix+"abc").Return(redis.NewStringResult("{", nil))
			},
			expectedErr: ErrNoSession,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRedis := &MockRedis{}
			deps := CreateTestDependencies(&MockDB{}, mockRedis)

			tt.setupMocks(mockRedis)

			controller := NewAuthController(deps)
			session, err := controller.GetSession(context.Background(), tt.token(t))

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, session)

			mockRedis.AssertExpectations(t)
		})
	}
}

func TestAuthController_DeleteSession(t *testing.T) {
	t.Run("unparseable token is a no-op", func(t *testing.T) {
		mockRedis := &MockRedis{}
		controller := NewAuthController(CreateTestDependencies(&MockDB{}, mockRedis))

		assert.NoError(t, controller.DeleteSession(context.Background(), "garbage"))
		mockRedis.AssertNumberOfCalls(t, "Del", 0)
	})

	t.Run("redis failure", func(t *testing.T) {
		mockRedis := &MockRedis{}
		mockRedis.On("Del", mock.Anything, []string{sessionKeyPrefix + "abc"}).Return(redis.NewIntResult(0, errors.New("redis down")))

		controller := NewAuthController(CreateTestDependencies(&MockDB{}, mockRedis))
		token := signTestToken(t, "test-secret-key", entity.Claims{SessionID: "abc"})

		assert.ErrorIs(t, controller.DeleteSession(context.Background(), token), ErrStoreFailure)
	})
}

func TestNewAuthController(t *testing.T) {
	deps := CreateTestDependencies(&MockDB{}, &MockRedis{})
	controller := NewAuthController(deps)

	assert.NotNil(t, controller)
	assert.Equal(t, deps, controller.deps)
}
