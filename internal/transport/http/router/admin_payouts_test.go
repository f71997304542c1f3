package router

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"marketplace-console/internal/domain"
	"marketplace-console/internal/service"
)

// stubPool 让无驱动的 gorm 也能开事务；真发 SQL 就报错
type stubPool struct{}

func (*stubPool) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, errors.New("no database in test")
}
func (*stubPool) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errors.New("no database in test")
}
func (*stubPool) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("no database in test")
}
func (*stubPool) QueryRowContext(context.Context, string, ...interface{}) *sql.Row { return nil }
func (*stubPool) BeginTx(context.Context, *sql.TxOptions) (gorm.ConnPool, error) {
	return &stubTx{}, nil
}

type stubTx struct{ stubPool }

func (*stubTx) Commit() error   { return nil }
func (*stubTx) Rollback() error { return nil }

// countingAuditDB 数 Create 次数；DryRun 下回调照跑、SQL 不执行
func countingAuditDB(t *testing.T, creates *int) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)
	err = db.Callback().Create().Before("gorm:create").Register("count_creates", func(*gorm.DB) {
		*creates++
	})
	require.NoError(t, err)
	return db
}

func TestAdminPayoutHoldRequiresReason(t *testing.T) {
	gin.SetMode(gin.TestMode)

	creates := 0
	actionDB, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{ConnPool: &stubPool{}})
	require.NoError(t, err)
	d := &Deps{
		Log:   zap.NewNop(),
		DB:    actionDB,
		Audit: service.NewAuditRecorder(countingAuditDB(t, &creates), zap.NewNop()),
	}

	r := gin.New()
	mountAdminPayouts(r.Group("/api/admin"), d)

	post := func(path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("blank reason rejected with no state change and no audit event", func(t *testing.T) {
		w := post("/api/admin/payouts/p1/hold", `{"reason":"   "}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "hold reason is required")
		require.Zero(t, creates)
	})

	t.Run("bulk hold needs a reason too", func(t *testing.T) {
		w := post("/api/admin/bulk/payouts", `{"ids":["p1"],"action":"hold","reason":""}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Zero(t, creates)
	})

	t.Run("the audit counter does observe real records", func(t *testing.T) {
		d.Audit.Record(context.Background(), "admin-1", domain.AuditCategoryPayout, "payout.held", "p1", "fraud review")
		require.Equal(t, 1, creates)
	})
}
