package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"fund_backend/internal/feature/funds/domain/entity"
)

// mockPriceRepository はテスト用のPriceRepositoryモック実装です。
type mockPriceRepository struct {
	upsertFn  func(ctx context.Context, p entity.FundPrice) error
	historyFn func(ctx context.Context, code string, from, to time.Time) ([]entity.FundPrice, error)
}

// Upsert はモックのUpsert関数を呼び出します。
func (m *mockPriceRepository) Upsert(ctx context.Context, p entity.FundPrice) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, p)
	}
	return nil
}

// History はモックのHistory関数を呼び出します。
func (m *mockPriceRepository) History(ctx context.Context, code string, from, to time.Time) ([]entity.FundPrice, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, code, from, to)
	}
	return nil, nil
}

var (
	histFrom = time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC)
	histTo   = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
)

const histKey = "prices:110020:2024-02-14:2024-03-15"

// TestNewCachingPriceRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingPriceRepository_Defaults(t *testing.T) {
	t.Parallel()

	repo := NewCachingPriceRepository(nil, 0, &mockPriceRepository{}, "")

	if repo.namespace != "prices" {
		t.Errorf("expected namespace %q, got %q", "prices", repo.namespace)
	}
	// 既定のTTLは次の公表時刻まで。常に正で24時間以内。
	if repo.ttl <= 0 || repo.ttl > 24*time.Hour {
		t.Errorf("expected publication-bounded TTL, got %v", repo.ttl)
	}

	custom := NewCachingPriceRepository(nil, 10*time.Minute, &mockPriceRepository{}, "custom")
	if custom.ttl != 10*time.Minute {
		t.Errorf("expected TTL %v, got %v", 10*time.Minute, custom.ttl)
	}
	if custom.namespace != "custom" {
		t.Errorf("expected namespace %q, got %q", "custom", custom.namespace)
	}
}

// TestCachingPriceRepository_History_NilRedis はRedisがnilの場合にキャッシュをバイパスして内部リポジトリを直接呼び出すことを検証します。
func TestCachingPriceRepository_History_NilRedis(t *testing.T) {
	t.Parallel()

	expected := []entity.FundPrice{
		{Code: "110020", Date: histTo, Price: 1.234, DailyChange: 0.56},
	}

	inner := &mockPriceRepository{
		historyFn: func(ctx context.Context, code string, from, to time.Time) ([]entity.FundPrice, error) {
			return expected, nil
		},
	}

	repo := NewCachingPriceRepository(nil, 5*time.Minute, inner, "prices")

	prices, err := repo.History(context.Background(), "110020", histFrom, histTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prices) != len(expected) {
		t.Errorf("expected %d prices, got %d", len(expected), len(prices))
	}
}

// TestCachingPriceRepository_History_CacheHit はキャッシュヒット時にRedisからデータを返し、内部リポジトリを呼ばないことを検証します。
func TestCachingPriceRepository_History_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached := []entity.FundPrice{
		{Code: "110020", Date: histTo, Price: 1.234, DailyChange: 0.56},
	}
	cachedJSON, _ := json.Marshal(cached)

	mock.ExpectGet(histKey).SetVal(string(cachedJSON))

	innerCalled := false
	inner := &mockPriceRepository{
		historyFn: func(ctx context.Context, code string, from, to time.Time) ([]entity.FundPrice, error) {
			innerCalled = true
			return nil, nil
		},
	}

	repo := NewCachingPriceRepository(rdb, 5*time.Minute, inner, "prices")
	prices, err := repo.History(context.Background(), "110020", histFrom, histTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if innerCalled {
		t.Error("inner repository should not be called on cache hit")
	}
	if len(prices) != 1 {
		t.Errorf("expected 1 price, got %d", len(prices))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingPriceRepository_History_CacheMiss はキャッシュミス時にDBからデータを取得し、キャッシュに保存することを検証します。
func TestCachingPriceRepository_History_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected := []entity.FundPrice{
		{Code: "110020", Date: histTo, Price: 1.234, DailyChange: 0.56},
	}
	expectedJSON, _ := json.Marshal(expected)

	// Cache miss
	mock.ExpectGet(histKey).RedisNil()
	// Set cache after fetching from inner
	mock.ExpectSet(histKey, expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockPriceRepository{
		historyFn: func(ctx context.Context, code string, from, to time.Time) ([]entity.FundPrice, error) {
			return expected, nil
		},
	}

	repo := NewCachingPriceRepository(rdb, 5*time.Minute, inner, "prices")
	prices, err := repo.History(context.Background(), "110020", histFrom, histTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prices) != 1 {
		t.Errorf("expected 1 price, got %d", len(prices))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingPriceRepository_History_InnerError は内部リポジトリがエラーを返した場合にそのエラーが伝播されることを検証します。
func TestCachingPriceRepository_History_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("database error")

	mock.ExpectGet(histKey).RedisNil()

	inner := &mockPriceRepository{
		historyFn: func(ctx context.Context, code string, from, to time.Time) ([]entity.FundPrice, error) {
			return nil, expectedErr
		},
	}

	repo := NewCachingPriceRepository(rdb, 5*time.Minute, inner, "prices")
	_, err := repo.History(context.Background(), "110020", histFrom, histTo)

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

// TestCachingPriceRepository_History_CorruptedCache は破損したキャッシュを検出・削除し、DBにフォールバックすることを検証します。
func TestCachingPriceRepository_History_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected := []entity.FundPrice{
		{Code: "110020", Date: histTo, Price: 1.234, DailyChange: 0.56},
	}
	expectedJSON, _ := json.Marshal(expected)

	// Return invalid JSON from cache
	mock.ExpectGet(histKey).SetVal("invalid json")
	// Delete corrupted cache
	mock.ExpectDel(histKey).SetVal(1)
	// Set new cache after fetching from inner
	mock.ExpectSet(histKey, expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockPriceRepository{
		historyFn: func(ctx context.Context, code string, from, to time.Time) ([]entity.FundPrice, error) {
			return expected, nil
		},
	}

	repo := NewCachingPriceRepository(rdb, 5*time.Minute, inner, "prices")
	prices, err := repo.History(context.Background(), "110020", histFrom, histTo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prices) != 1 {
		t.Errorf("expected 1 price, got %d", len(prices))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingPriceRepository_Upsert_NilRedis はRedisがnilの場合にUpsertが内部リポジトリのみを呼び出すことを検証します。
func TestCachingPriceRepository_Upsert_NilRedis(t *testing.T) {
	t.Parallel()

	innerCalled := false
	inner := &mockPriceRepository{
		upsertFn: func(ctx context.Context, p entity.FundPrice) error {
			innerCalled = true
			return nil
		},
	}

	repo := NewCachingPriceRepository(nil, 5*time.Minute, inner, "prices")
	err := repo.Upsert(context.Background(), entity.FundPrice{Code: "110020", Date: histTo, Price: 1.234})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !innerCalled {
		t.Error("inner repository should be called")
	}
}

// TestCachingPriceRepository_Upsert_InvalidatesCache はUpsert成功後に該当ファンドのキャッシュが削除されることを検証します。
func TestCachingPriceRepository_Upsert_InvalidatesCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "prices:110020:*", 200).SetVal([]string{histKey}, 0)
	mock.ExpectDel(histKey).SetVal(1)

	repo := NewCachingPriceRepository(rdb, 5*time.Minute, &mockPriceRepository{}, "prices")
	err := repo.Upsert(context.Background(), entity.FundPrice{Code: "110020", Date: histTo, Price: 1.234})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingPriceRepository_Upsert_InnerError は内部リポジトリのエラー時にキャッシュ削除を行わないことを検証します。
func TestCachingPriceRepository_Upsert_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("database error")
	inner := &mockPriceRepository{
		upsertFn: func(ctx context.Context, p entity.FundPrice) error {
			return expectedErr
		},
	}

	repo := NewCachingPriceRepository(rdb, 5*time.Minute, inner, "prices")
	err := repo.Upsert(context.Background(), entity.FundPrice{Code: "110020", Date: histTo, Price: 1.234})

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}
