package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/openfacture/internal/auth"
	apphttp "github.com/MrJamesThe3rd/openfacture/internal/http"
	handler "github.com/MrJamesThe3rd/openfacture/internal/http/invoice"
	"github.com/MrJamesThe3rd/openfacture/internal/invoice"
)

const testSecret = "router-test-secret-0123456789abcdef"

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func newRouter(t *testing.T, db apphttp.Pinger, setupMock func(m *invoice.MockRepository)) http.Handler {
	t.Helper()

	repo := invoice.NewMockRepository(gomock.NewController(t))
	if setupMock != nil {
		setupMock(repo)
	}

	svc := invoice.NewService(repo, invoice.NewEngine(invoice.DefaultConfig()))

	return apphttp.New(apphttp.Options{
		AllowedOrigins: []string{"http://localhost:5173"},
		JWTSecret:      testSecret,
		Timeout:        5 * time.Second,
	}, db, handler.NewHandler(svc))
}

func TestRouter_Health(t *testing.T) {
	tests := []struct {
		name       string
		db         apphttp.Pinger
		wantStatus int
	}{
		{name: "Healthy", db: pinger{}, wantStatus: http.StatusOK},
		{name: "DatabaseDown", db: pinger{err: errors.New("dial tcp: refused")}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(t, tt.db, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRouter_InvoicesRequireToken(t *testing.T) {
	owner := uuid.New()

	router := newRouter(t, pinger{}, func(m *invoice.MockRepository) {
		m.EXPECT().ListInvoices(gomock.Any(), owner, invoice.ListFilter{}).Return(nil, nil)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := auth.Issue(testSecret, "test", owner, time.Minute)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"invoices":[]}`, rec.Body.String())
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/invoices", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	newRouter(t, pinger{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
