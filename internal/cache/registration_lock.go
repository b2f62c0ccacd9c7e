package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "event-checkin/pkg/app_errors"
	"event-checkin/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RegistrationLock 在「查詢是否已報名」到「寫入新票券」之間鎖住報名者的身分欄位
type RegistrationLock interface {
	// Acquire 同時鎖住姓名、email、電話，任一已被鎖住就等待，超過等待時間回傳 ErrRegistrationBusy
	Acquire(ctx context.Context, name, email, phone string) (release func(), err error)
}

type noopRegistrationLock struct{}

// NewNoopRegistrationLock 不做任何鎖定，維持原本允許併發重複報名的行為
func NewNoopRegistrationLock() RegistrationLock {
	return noopRegistrationLock{}
}

func (noopRegistrationLock) Acquire(ctx context.Context, name, email, phone string) (func(), error) {
	return func() {}, nil
}

const defaultLockRetryInterval = 25 * time.Millisecond

// 全部 key 都不存在才一次設定，確保不會只鎖到一部分
var acquireIdentityScript = redis.NewScript(`
	local token = ARGV[1]
	local ttl = tonumber(ARGV[2])

	for _, key in ipairs(KEYS) do
		if redis.call('EXISTS', key) == 1 then
			return 0
		end
	end

	for _, key in ipairs(KEYS) do
		redis.call('SET', key, token, 'PX', ttl)
	end

	return 1
`)

// 只刪除自己持有的 key，避免 TTL 過期後誤刪別人的鎖
var releaseIdentityScript = redis.NewScript(`
	local released = 0
	for _, key in ipairs(KEYS) do
		if redis.call('GET', key) == ARGV[1] then
			redis.call('DEL', key)
			released = released + 1
		end
	end
	return released
`)

type RedisRegistrationLockImpl struct {
	client        *redis.Client
	ttl           time.Duration
	wait          time.Duration
	retryInterval time.Duration
}

func NewRedisRegistrationLock(client *redis.Client, ttl, wait time.Duration) RegistrationLock {
	return &RedisRegistrationLockImpl{
		client:        client,
		ttl:           ttl,
		wait:          wait,
		retryInterval: defaultLockRetryInterval,
	}
}

// 身分鎖的 key
func identityKeys(name, email, phone string) []string {
	return []string{
		fmt.Sprintf("register:name:%s", name),
		fmt.Sprintf("register:email:%s", strings.ToLower(email)),
		fmt.Sprintf("register:phone:%s", phone),
	}
}

func (l *RedisRegistrationLockImpl) Acquire(ctx context.Context, name, email, phone string) (func(), error) {
	keys := identityKeys(name, email, phone)
	token := uuid.New().String()

	deadline := time.Now().Add(l.wait)
	for {
		ok, err := acquireIdentityScript.Run(ctx, l.client, keys, token, l.ttl.Milliseconds()).Int()
		if err != nil {
			return nil, fmt.Errorf("acquire registration lock: %w: %w", apperrors.ErrStorageUnavailable, err)
		}
		if ok == 1 {
			return l.releaseFunc(keys, token), nil
		}

		if time.Now().After(deadline) {
			return nil, apperrors.ErrRegistrationBusy
		}

		timer := time.NewTimer(l.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *RedisRegistrationLockImpl) releaseFunc(keys []string, token string) func() {
	return func() {
		// 請求可能已取消，釋放鎖使用 context.Background() 確保一定會執行
		if err := releaseIdentityScript.Run(context.Background(), l.client, keys, token).Err(); err != nil {
			logger.WithComponent("cache").Warn("release registration lock failed", zap.Strings("keys", keys), zap.Error(err))
		}
	}
}
