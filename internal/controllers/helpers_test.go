package controllers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"time"

	"github.com/adamanr/staff_portal/internal/config"
	"github.com/adamanr/staff_portal/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockDB represents a mock database pool.
type MockDB struct {
	mock.Mock
}

func (m *MockDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	mockArgs := append([]any{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	return callArgs.Get(0).(pgx.Rows), callArgs.Error(1)
}

func (m *MockDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	mockArgs := append([]any{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	return callArgs.Get(0).(pgx.Row)
}

func (m *MockDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	mockArgs := append([]any{ctx, sql}, args...)
	callArgs := m.Called(mockArgs...)
	return callArgs.Get(0).(pgconn.CommandTag), callArgs.Error(1)
}

// assignValues copies values into scan destinations by position.
func assignValues(dest []any, values []any) error {
	for i, val := range values {
		if i >= len(dest) {
			break
		}

		target := reflect.ValueOf(dest[i])
		if target.Kind() != reflect.Pointer || target.IsNil() {
			return fmt.Errorf("destination %d is not a pointer", i)
		}

		elem := target.Elem()
		if val == nil {
			elem.SetZero()
			continue
		}

		v := reflect.ValueOf(val)
		if !v.Type().AssignableTo(elem.Type()) {
			if !v.Type().ConvertibleTo(elem.Type()) {
				return fmt.Errorf("cannot scan %T into %s", val, elem.Type())
			}
			v = v.Convert(elem.Type())
		}
		elem.Set(v)
	}

	return nil
}

// MockRow represents a mock database row.
type MockRow struct {
	data []any
	err  error
}

func NewMockRow(data []any, err error) *MockRow {
	return &MockRow{data: data, err: err}
}

func (m *MockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	return assignValues(dest, m.data)
}

// MockRows represents mock database rows.
type MockRows struct {
	rows   [][]any
	pos    int
	err    error
	closed bool
}

func NewMockRows(rows [][]any, err error) *MockRows {
	return &MockRows{
		rows: rows,
		pos:  -1,
		err:  err,
	}
}

func (m *MockRows) FieldDescriptions() []pgconn.FieldDescription {
	return nil
}

func (m *MockRows) Next() bool {
	if m.err != nil {
		return false
	}
	m.pos++
	return m.pos < len(m.rows)
}

func (m *MockRows) Close() {
	m.closed = true
}

func (m *MockRows) Scan(dest ...any) error {
	if m.pos < 0 || m.pos >= len(m.rows) {
		return nil
	}
	return assignValues(dest, m.rows[m.pos])
}

func (m *MockRows) Err() error {
	return m.err
}

func (m *MockRows) CommandTag() pgconn.CommandTag {
	return pgconn.NewCommandTag("SELECT")
}

func (m *MockRows) Values() ([]any, error) {
	if m.pos < 0 || m.pos >= len(m.rows) {
		return nil, nil
	}
	return m.rows[m.pos], nil
}

func (m *MockRows) RawValues() [][]byte {
	return nil
}

func (m *MockRows) Conn() *pgx.Conn {
	return nil
}

// MockRedis represents a mock Redis client.
type MockRedis struct {
	mock.Mock
}

func (m *MockRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *MockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *MockRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	return args.Get(0).(*redis.IntCmd)
}

func NewMockCommandTag(verb string, rowsAffected int64) pgconn.CommandTag {
	return pgconn.NewCommandTag(fmt.Sprintf("%s %d", verb, rowsAffected))
}

// Test helper functions.
func CreateTestDependencies(mockDB *MockDB, mockRedis *MockRedis) *Dependens {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	cfg := &config.Config{}
	cfg.Server.SecretKey = "test-secret-key"
	cfg.Session.TTL = time.Hour

	return &Dependens{
		DB:     mockDB,
		Redis:  mockRedis,
		Logger: logger,
		Config: cfg,
	}
}

// Test data helpers.
func CreateTestEmployee() entity.Employee {
	return entity.Employee{
		ID:             1,
		LastName:       "Pop",
		FirstName:      "Ana",
		Password:       "an153PO!",
		Department:     "IT",
		Role:           entity.RoleAdmin,
		EmploymentDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		County:         "Cluj",
		PhoneNumber:    "0722000000",
		ItsActive:      true,
	}
}

func employeeRow(emp entity.Employee) []any {
	return []any{
		emp.ID, emp.LastName, emp.FirstName, emp.Password, emp.Department,
		string(emp.Role), emp.EmploymentDate, emp.County, emp.PhoneNumber, emp.ItsActive,
	}
}

func testEmployee(id int64, lastName, firstName string, date time.Time) entity.Employee {
	emp := CreateTestEmployee()
	emp.ID = id
	emp.LastName = lastName
	emp.FirstName = firstName
	emp.EmploymentDate = date
	return emp
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
