package router

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"marketplace-console/internal/domain"
)

// fakeAuditSet 模拟按 (created_at, id) 键集续取的存储
type fakeAuditSet struct {
	all   []domain.AuditEvent
	calls int
	fail  bool // 首批之后让 fetch 报错
}

func (s *fakeAuditSet) fetch(afterAt time.Time, afterID string, limit int) ([]domain.AuditEvent, error) {
	s.calls++
	if s.fail && afterID != "" {
		return nil, errors.New("connection lost")
	}
	out := make([]domain.AuditEvent, 0, limit)
	for _, e := range s.all {
		if afterID != "" {
			newer := e.CreatedAt.After(afterAt) ||
				(e.CreatedAt.Equal(afterAt) && e.ID > afterID)
			if !newer {
				continue
			}
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func auditEvents(n int, base time.Time) []domain.AuditEvent {
	events := make([]domain.AuditEvent, n)
	for i := range events {
		events[i] = domain.AuditEvent{
			ID:        fmt.Sprintf("ev-%05d", i),
			ActorID:   "admin-1",
			Category:  "user",
			EventType: "user.updated",
			CreatedAt: base, // 同一时间戳，迫使键集靠 id 断后
		}
	}
	return events
}

func TestStreamAuditCSV(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("a set larger than the batch size is written out whole", func(t *testing.T) {
		set := &fakeAuditSet{all: auditEvents(2350, base)}
		first, err := set.fetch(time.Time{}, "", auditExportBatch)
		require.NoError(t, err)

		var buf bytes.Buffer
		rows, err := streamAuditCSV(csv.NewWriter(&buf), first, set.fetch)
		require.NoError(t, err)
		require.Equal(t, 2350, rows)
		// 首批一次 + 续取两批
		require.Equal(t, 3, set.calls)

		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2351) // 表头 + 全量行
		for i, rec := range records[1:] {
			require.Equal(t, fmt.Sprintf("ev-%05d", i), rec[0], "row %d out of order or missing", i)
		}
	})

	t.Run("a set under one batch needs no extra fetch", func(t *testing.T) {
		set := &fakeAuditSet{all: auditEvents(7, base)}
		first, err := set.fetch(time.Time{}, "", auditExportBatch)
		require.NoError(t, err)

		var buf bytes.Buffer
		rows, err := streamAuditCSV(csv.NewWriter(&buf), first, set.fetch)
		require.NoError(t, err)
		require.Equal(t, 7, rows)
		require.Equal(t, 1, set.calls)
	})

	t.Run("mid stream fetch failure reports rows written so far", func(t *testing.T) {
		set := &fakeAuditSet{all: auditEvents(1500, base), fail: true}
		first, err := set.fetch(time.Time{}, "", auditExportBatch)
		require.NoError(t, err)

		var buf bytes.Buffer
		rows, err := streamAuditCSV(csv.NewWriter(&buf), first, set.fetch)
		require.Error(t, err)
		require.Equal(t, 1000, rows)
	})
}
