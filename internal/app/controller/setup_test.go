package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/chengtian/temple-backend/internal/app/repository"
	"github.com/chengtian/temple-backend/internal/app/service"
	"github.com/chengtian/temple-backend/internal/db"
	"github.com/chengtian/temple-backend/internal/middleware"
	"github.com/chengtian/temple-backend/internal/notify"
	"github.com/chengtian/temple-backend/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testLocation = time.FixedZone("Asia/Taipei", 8*60*60)

type recordingSink struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (s *recordingSink) Enqueue(msg notify.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return true
}

func (s *recordingSink) kinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]string, 0, len(s.messages))
	for _, m := range s.messages {
		kinds = append(kinds, m.Kind)
	}
	return kinds
}

// testEnv wires real services over an in-memory database. Tests mount the
// routes they exercise on router.
type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	store    *session.MemoryStore
	sessions *session.Manager
	mail     *recordingSink

	orders    service.OrderService
	feedback  service.FeedbackService
	shipments service.ShipmentService
	captcha   service.CaptchaService
	products  service.ProductService
	content   service.ContentService
	fund      service.FundService
	exports   service.ExportService
}

func setupControllerTest(t *testing.T) *testEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	orderRepo := repository.NewOrderRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	feedbackRepo := repository.NewFeedbackRepository(testDB)
	shipmentRepo := repository.NewShipmentRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)

	mail := &recordingSink{}
	composer := notify.NewComposer(notify.SiteInfo{Name: "承天禪寺"}, testLocation)

	store := session.NewMemoryStore(time.Hour)
	sessions := session.NewManager(store, "test-session-secret", "temple_session", time.Hour, false)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SessionMiddleware(sessions))

	return &testEnv{
		db:        testDB,
		router:    router,
		store:     store,
		sessions:  sessions,
		mail:      mail,
		orders:    service.NewOrderService(orderRepo, productRepo, mail, composer, nil, testLocation),
		feedback:  service.NewFeedbackService(feedbackRepo, userRepo, mail, composer, nil, testLocation),
		shipments: service.NewShipmentService(shipmentRepo, nil, testLocation),
		captcha:   service.NewCaptchaService(),
		products:  service.NewProductService(productRepo),
		content: service.NewContentService(
			repository.NewAnnouncementRepository(testDB),
			repository.NewFAQRepository(testDB),
			repository.NewLinkRepository(testDB),
			testLocation,
		),
		fund:    service.NewFundService(repository.NewSettingRepository(testDB)),
		exports: service.NewExportService(orderRepo, shipmentRepo, feedbackRepo, testLocation),
	}
}

// newSession mints a session, stores values in it and returns its cookie.
func (e *testEnv) newSession(t *testing.T, values map[string]string) (*http.Cookie, string) {
	s := e.sessions.Resolve(httptest.NewRequest(http.MethodGet, "/", nil))
	for k, v := range values {
		require.NoError(t, s.Set(context.Background(), k, v))
	}
	w := httptest.NewRecorder()
	require.NoError(t, e.sessions.WriteCookie(w, s))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0], s.ID()
}

const testCSRFToken = "csrf-token-for-tests"

// adminCookie returns a session cookie carrying the admin flag and CSRF token.
func (e *testEnv) adminCookie(t *testing.T) *http.Cookie {
	cookie, _ := e.newSession(t, map[string]string{
		session.KeyAdmin:     "1",
		session.KeyCSRFToken: testCSRFToken,
	})
	return cookie
}

// do performs a request; body is JSON-encoded unless nil.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
		req.Header.Set(middleware.CSRFHeader, testCSRFToken)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func randomID() string {
	return uuid.NewString()
}
