package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"marketplace-console/internal/core/auth"
)

type memStore struct {
	m map[string]auth.Challenge
}

func (s *memStore) Put(_ context.Context, ch auth.Challenge, _ time.Duration) error {
	s.m[ch.UserID] = ch
	return nil
}

func (s *memStore) Get(_ context.Context, userID string) (*auth.Challenge, bool) {
	ch, ok := s.m[userID]
	if !ok {
		return nil, false
	}
	return &ch, true
}

func (s *memStore) Del(_ context.Context, userID string) error {
	delete(s.m, userID)
	return nil
}

type memSender struct {
	to, code string
}

func (s *memSender) SendTwoFactorCode(to, _, code string) error {
	s.to, s.code = to, code
	return nil
}

func TestTwoFactor_RequireAndVerify(t *testing.T) {
	store := &memStore{m: map[string]auth.Challenge{}}
	sender := &memSender{}
	tf := &auth.TwoFactor{Store: store, Sender: sender, TTL: 5 * time.Minute}
	ctx := context.Background()

	t.Run("not enabled blocks with ErrTwoFactorUnavailable", func(t *testing.T) {
		_, err := tf.Require(ctx, "u1", "a@example.com", "A", false)
		require.ErrorIs(t, err, auth.ErrTwoFactorUnavailable)
		require.Empty(t, sender.code)
	})

	t.Run("enabled sends a six digit code", func(t *testing.T) {
		chID, err := tf.Require(ctx, "u1", "a@example.com", "A", true)
		require.NoError(t, err)
		require.NotEmpty(t, chID)
		require.Equal(t, "a@example.com", sender.to)
		require.Len(t, sender.code, 6)
	})

	t.Run("wrong code rejected, right code consumed once", func(t *testing.T) {
		require.Error(t, tf.Verify(ctx, "u1", wrongCode(sender.code)))

		require.NoError(t, tf.Verify(ctx, "u1", sender.code))
		// 一次性：同一个码不能复用
		require.Error(t, tf.Verify(ctx, "u1", sender.code))
	})
}

// wrongCode 返回一个和 code 必然不同的 6 位码
func wrongCode(code string) string {
	if code == "000000" {
		return "000001"
	}
	return "000000"
}

func TestTwoFactor_VerifyAttemptCap(t *testing.T) {
	store := &memStore{m: map[string]auth.Challenge{}}
	sender := &memSender{}
	tf := &auth.TwoFactor{Store: store, Sender: sender, TTL: 5 * time.Minute}
	ctx := context.Background()

	t.Run("a few failures still leave the right code usable", func(t *testing.T) {
		_, err := tf.Require(ctx, "u1", "a@example.com", "A", true)
		require.NoError(t, err)

		require.Error(t, tf.Verify(ctx, "u1", wrongCode(sender.code)))
		require.Error(t, tf.Verify(ctx, "u1", wrongCode(sender.code)))
		require.NoError(t, tf.Verify(ctx, "u1", sender.code))
	})

	t.Run("challenge destroyed after the attempt cap", func(t *testing.T) {
		_, err := tf.Require(ctx, "u2", "b@example.com", "B", true)
		require.NoError(t, err)
		code := sender.code

		for i := 0; i < 5; i++ {
			require.Error(t, tf.Verify(ctx, "u2", wrongCode(code)))
		}
		// 挑战已作废，正确码也救不回来
		require.ErrorIs(t, tf.Verify(ctx, "u2", code), auth.ErrChallengeInvalid)
		_, ok := store.Get(ctx, "u2")
		require.False(t, ok)
	})
}

func TestTwoFactor_Resend(t *testing.T) {
	store := &memStore{m: map[string]auth.Challenge{}}
	sender := &memSender{}
	tf := &auth.TwoFactor{Store: store, Sender: sender, TTL: 5 * time.Minute}
	ctx := context.Background()

	t.Run("nothing pending means nothing to resend", func(t *testing.T) {
		_, err := tf.Resend(ctx, "ghost", "g@example.com", "G")
		require.ErrorIs(t, err, auth.ErrNoPendingChallenge)
		require.Empty(t, sender.code)
	})

	t.Run("immediate resend hits the cooldown", func(t *testing.T) {
		_, err := tf.Require(ctx, "u1", "a@example.com", "A", true)
		require.NoError(t, err)

		_, err = tf.Resend(ctx, "u1", "a@example.com", "A")
		require.ErrorIs(t, err, auth.ErrResendCooldown)
	})

	t.Run("resend after the cooldown issues a fresh code", func(t *testing.T) {
		old := sender.code
		ch := store.m["u1"]
		ch.IssuedAt = time.Now().Add(-2 * time.Minute)
		store.m["u1"] = ch

		chID, err := tf.Resend(ctx, "u1", "a@example.com", "A")
		require.NoError(t, err)
		require.NotEqual(t, ch.ID, chID)
		require.Len(t, sender.code, 6)

		// 旧码随旧挑战作废
		if old != sender.code {
			require.Error(t, tf.Verify(ctx, "u1", old))
		}
		require.NoError(t, tf.Verify(ctx, "u1", sender.code))
	})
}
