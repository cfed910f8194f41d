//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ammerola/storefront/internal/adapters/queue"
	redis_a "github.com/ammerola/storefront/internal/adapters/redis_adapter"
	"github.com/ammerola/storefront/internal/core/domain"
	"github.com/ammerola/storefront/internal/core/services"
	"github.com/ammerola/storefront/internal/core/state"
	"github.com/ammerola/storefront/internal/handlers"
	"github.com/ammerola/storefront/internal/handlers/middleware"
	"github.com/ammerola/storefront/internal/view"
	"github.com/ammerola/storefront/internal/workers"
	"github.com/ammerola/storefront/test/helpers"
)

// inlineEnqueuer runs receipt tasks as soon as they are enqueued
type inlineEnqueuer struct {
	processor *workers.CheckoutProcessor
}

func (e inlineEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if err := e.processor.ProcessReceipt(ctx, task); err != nil {
		return nil, err
	}
	return &asynq.TaskInfo{Type: task.Type(), Queue: "default"}, nil
}

type StorefrontWorkflowSuite struct {
	suite.Suite
	backend    *helpers.TestBackend
	redis      *helpers.TestRedis
	controller *services.Controller
	server     *httptest.Server
	client     *http.Client
}

func TestStorefrontWorkflow(t *testing.T) {
	suite.Run(t, new(StorefrontWorkflowSuite))
}

func (s *StorefrontWorkflowSuite) SetupTest() {
	t := s.T()
	logger := helpers.TestLogger()

	s.backend = helpers.SetupTestBackend(t, helpers.SampleInventory())
	s.redis = helpers.SetupTestRedis(t)

	sessions := redis_a.NewSessionStore(s.redis.Client, time.Hour, logger)
	receiptLog := redis_a.NewReceiptLog(s.redis.Client, redis_a.DefaultReceiptCapacity, logger)
	processor := workers.NewCheckoutProcessor(receiptLog, logger)
	receipts := queue.NewReceiptQueue(inlineEnqueuer{processor: processor}, 3, logger)

	s.controller = services.NewController(s.backend.Client, state.New(), sessions, receipts, logger)
	require.NoError(t, s.controller.Init(context.Background()))

	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	mux := http.NewServeMux()
	handlers.NewStorefrontHandler(s.controller, renderer, receiptLog, handlers.StorefrontOptions{}, logger).Register(mux)
	handlers.NewHealthHandler(s.backend.Client, sessions, nil, helpers.LoadTestConfig(), logger).Register(mux)

	s.server = httptest.NewServer(middleware.Chain(mux,
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Compression,
		middleware.Session(middleware.SessionConfig{CookieName: "sid", TTL: time.Hour}),
	))
	t.Cleanup(s.server.Close)

	s.client = s.newBrowser()
}

func (s *StorefrontWorkflowSuite) newBrowser() *http.Client {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

// press submits a row form and returns the page the browser lands on
func (s *StorefrontWorkflowSuite) press(client *http.Client, region, action string, id int) string {
	form := url.Values{}
	if id != 0 {
		form.Set("id", strconv.Itoa(id))
	}
	resp, err := client.PostForm(s.server.URL+"/actions/"+region+"/"+action, form)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().Equal("/", resp.Request.URL.Path, "the browser is sent back to the page")

	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return string(body)
}

func (s *StorefrontWorkflowSuite) page(client *http.Client) string {
	resp, err := client.Get(s.server.URL + "/")
	s.Require().NoError(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return string(body)
}

func (s *StorefrontWorkflowSuite) TestAddThreeApples() {
	for i := 0; i < 3; i++ {
		s.press(s.client, "inventory", "increment", 1)
	}
	s.Contains(s.page(s.client), `<span class="counter">3</span>`)

	page := s.press(s.client, "inventory", "add", 1)

	s.Equal([]domain.CartItem{{ID: 1, Content: "Apple", Amount: 3}}, s.backend.Cart())
	s.Contains(page, "Apple (x3)")
	s.Contains(page, "notice-success")
	s.Len(s.backend.RequestsMatching(http.MethodPost, "/cart"), 1)
}

func (s *StorefrontWorkflowSuite) TestAddMergesIntoExistingLine() {
	s.press(s.client, "inventory", "increment", 1)
	s.press(s.client, "inventory", "increment", 1)
	s.press(s.client, "inventory", "add", 1)

	s.press(s.client, "inventory", "increment", 1)
	page := s.press(s.client, "inventory", "add", 1)

	s.Equal([]domain.CartItem{{ID: 1, Content: "Apple", Amount: 3}}, s.backend.Cart())
	s.Contains(page, "Apple (x3)")
	s.Len(s.backend.RequestsMatching(http.MethodPost, "/cart"), 1)
	s.Len(s.backend.RequestsMatching(http.MethodPatch, "/cart/1"), 1)
}

func (s *StorefrontWorkflowSuite) TestEditThreeToFour() {
	s.backend.SeedCart(domain.CartItem{ID: 1, Content: "Apple", Amount: 3})
	s.press(s.client, "page", "refresh", 0)

	page := s.press(s.client, "cart", "edit", 1)
	s.Contains(page, "Editing: Apple")
	s.Contains(page, `<span class="counter">3</span>`)

	page = s.press(s.client, "cart", "increment", 1)
	s.Contains(page, `<span class="counter">4</span>`)
	s.Empty(s.backend.RequestsMatching(http.MethodPatch, "/cart/1"), "nothing is sent before save")

	page = s.press(s.client, "cart", "save", 1)
	s.Equal([]domain.CartItem{{ID: 1, Content: "Apple", Amount: 4}}, s.backend.Cart())
	s.Contains(page, "Apple (x4)")
	s.NotContains(page, "Editing:")
}

func (s *StorefrontWorkflowSuite) TestPartialCheckoutRecordsReceipt() {
	s.backend.SeedCart(
		domain.CartItem{ID: 1, Content: "Apple", Amount: 3},
		domain.CartItem{ID: 2, Content: "Pear", Amount: 1},
	)
	s.backend.FailWith(http.MethodDelete, "/cart/2", http.StatusInternalServerError)
	s.press(s.client, "page", "refresh", 0)

	page := s.press(s.client, "checkout", "submit", 0)

	s.Contains(page, "Checkout incomplete")
	s.Contains(page, "Pear (x1)")
	s.NotContains(page, "Apple (x3)")
	s.Equal([]domain.CartItem{{ID: 2, Content: "Pear", Amount: 1}}, s.backend.Cart())

	resp, err := s.client.Get(s.server.URL + "/api/v1/receipts")
	s.Require().NoError(err)
	defer resp.Body.Close()

	var body struct {
		Receipts []domain.Receipt `json:"receipts"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Require().Len(body.Receipts, 1)
	s.True(body.Receipts[0].Partial)
	s.Equal(3, body.Receipts[0].TotalAmount)
}

func (s *StorefrontWorkflowSuite) TestSessionsAreIsolated() {
	s.press(s.client, "inventory", "increment", 2)
	s.press(s.client, "inventory", "increment", 2)

	other := s.newBrowser()
	page := s.page(other)
	s.NotContains(page, `<span class="counter">2</span>`)

	s.Contains(s.page(s.client), `<span class="counter">2</span>`)

	keys := s.redis.Server.Keys()
	sessionKeys := 0
	for _, k := range keys {
		if strings.HasPrefix(k, "session:") {
			sessionKeys++
		}
	}
	s.Equal(1, sessionKeys, "viewing the page does not persist a session")
}

func (s *StorefrontWorkflowSuite) TestBackendOutageIsReported() {
	s.backend.FailWith(http.MethodGet, "/cart", http.StatusServiceUnavailable)
	s.backend.FailWith(http.MethodGet, "/inventory", http.StatusServiceUnavailable)

	page := s.press(s.client, "page", "refresh", 0)
	s.Contains(page, "notice-error")
	s.Contains(page, "Apple", "the last known lists stay on screen")

	resp, err := s.client.Get(s.server.URL + "/ready")
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusServiceUnavailable, resp.StatusCode)

	s.backend.ClearFailures()

	page = s.press(s.client, "page", "refresh", 0)
	s.Contains(page, "notice-success")
	s.NotContains(page, "notice-error")

	resp, err = s.client.Get(s.server.URL + "/ready")
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}
