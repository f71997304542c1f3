package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"marketplace-console/internal/core/cache"
)

// ErrTwoFactorUnavailable 角色强制二次验证但账号未开启：
// 直接拒绝登录，不允许降级放行
var ErrTwoFactorUnavailable = errors.New("two-factor required for this role but not enabled on the account")

var ErrChallengeInvalid = errors.New("invalid or expired two-factor code")

var ErrNoPendingChallenge = errors.New("no pending two-factor challenge")

var ErrResendCooldown = errors.New("a code was sent recently, wait before requesting another")

// 同一挑战最多允许的试错次数，用完即作废，6 位码没法在线暴力穷举
const maxVerifyAttempts = 5

// 重发冷却，防止拿已知 user_id 刷邮件
const resendCooldown = time.Minute

type Challenge struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Code     string    `json:"code"`
	IssuedAt time.Time `json:"issued_at"`
	Attempts int       `json:"attempts"`
}

// ChallengeStore 挑战码按 userID 存取（登录时会话尚未建立，只能用显式 uid）
type ChallengeStore interface {
	Put(ctx context.Context, ch Challenge, ttl time.Duration) error
	Get(ctx context.Context, userID string) (*Challenge, bool)
	Del(ctx context.Context, userID string) error
}

type CodeSender interface {
	SendTwoFactorCode(to, name, code string) error
}

type TwoFactor struct {
	Store  ChallengeStore
	Sender CodeSender
	TTL    time.Duration
}

// Require 给已通过密码校验的用户下发挑战码。
// enabled 为账号自身的二次验证开关。
func (t *TwoFactor) Require(ctx context.Context, userID, email, name string, enabled bool) (string, error) {
	if !enabled {
		return "", ErrTwoFactorUnavailable
	}
	return t.issue(ctx, userID, email, name)
}

// Resend 只在已有未消费挑战时重发；
// 挑战只能由通过密码校验的登录产生，这里不给未认证调用方开新口子
func (t *TwoFactor) Resend(ctx context.Context, userID, email, name string) (string, error) {
	prev, ok := t.Store.Get(ctx, userID)
	if !ok {
		return "", ErrNoPendingChallenge
	}
	if time.Since(prev.IssuedAt) < resendCooldown {
		return "", ErrResendCooldown
	}
	return t.issue(ctx, userID, email, name)
}

func (t *TwoFactor) issue(ctx context.Context, userID, email, name string) (string, error) {
	ch := Challenge{
		ID:       uuid.NewString(),
		UserID:   userID,
		Code:     newCode(),
		IssuedAt: time.Now(),
	}
	if err := t.Store.Put(ctx, ch, t.TTL); err != nil {
		return "", fmt.Errorf("store 2fa challenge: %w", err)
	}
	if err := t.Sender.SendTwoFactorCode(email, name, ch.Code); err != nil {
		return "", fmt.Errorf("send 2fa code: %w", err)
	}
	return ch.ID, nil
}

// Verify 校验并消费挑战码（一次性）。
// 试错会累加并回写，到上限直接作废挑战；回写保留剩余 TTL，不给穷举续命。
func (t *TwoFactor) Verify(ctx context.Context, userID, code string) error {
	ch, ok := t.Store.Get(ctx, userID)
	if !ok {
		return ErrChallengeInvalid
	}
	if subtle.ConstantTimeCompare([]byte(ch.Code), []byte(code)) != 1 {
		ch.Attempts++
		left := t.TTL - time.Since(ch.IssuedAt)
		if ch.Attempts >= maxVerifyAttempts || left <= 0 {
			_ = t.Store.Del(ctx, userID)
		} else {
			_ = t.Store.Put(ctx, *ch, left)
		}
		return ErrChallengeInvalid
	}
	_ = t.Store.Del(ctx, userID)
	return nil
}

func newCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand 基本不会失败；失败时宁可报废挑战
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}

// ---------- redis 实现 ----------

type RedisChallengeStore struct{ C *cache.Cache }

func challengeKey(userID string) string { return "2fa:challenge:" + userID }

func (s *RedisChallengeStore) Put(ctx context.Context, ch Challenge, ttl time.Duration) error {
	return cache.SetJSON(s.C, ctx, challengeKey(ch.UserID), &ch, ttl)
}

func (s *RedisChallengeStore) Get(ctx context.Context, userID string) (*Challenge, bool) {
	return cache.GetJSON[Challenge](s.C, ctx, challengeKey(userID))
}

func (s *RedisChallengeStore) Del(ctx context.Context, userID string) error {
	return s.C.Del(ctx, challengeKey(userID))
}
