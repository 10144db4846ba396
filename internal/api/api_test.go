package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Behyna/whatsapp-relay/internal/api"
	"github.com/Behyna/whatsapp-relay/internal/api/v1"
	"github.com/Behyna/whatsapp-relay/internal/config"
	"github.com/Behyna/whatsapp-relay/internal/metrics"
	"github.com/Behyna/whatsapp-relay/internal/service"
	"github.com/Behyna/whatsapp-relay/pkg/cloudapi"
	"github.com/Behyna/whatsapp-relay/pkg/httpclient"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMessage struct {
	Path          string
	Authorization string
	Body          cloudapi.SendMessageRequest
}

type graphStub struct {
	server *httptest.Server
	status int

	mu   sync.Mutex
	sent []sentMessage
}

func newGraphStub(t *testing.T, status int) *graphStub {
	stub := &graphStub{status: status}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req cloudapi.SendMessageRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		stub.mu.Lock()
		stub.sent = append(stub.sent, sentMessage{Path: r.URL.Path, Authorization: r.Header.Get("Authorization"), Body: req})
		stub.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(stub.status)
		if stub.status >= 300 {
			w.Write([]byte(`{"error":{"message":"(#131030) Recipient phone number not in allowed list","type":"OAuthException","code":131030}}`))
			return
		}
		w.Write([]byte(`{"messaging_product":"whatsapp","contacts":[{"input":"15551234","wa_id":"15551234"}],"messages":[{"id":"wamid.out"}]}`))
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func (g *graphStub) Sent() []sentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]sentMessage(nil), g.sent...)
}

type testEnv struct {
	app        *fiber.App
	dispatcher service.ReplyDispatcher
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	logger := zap.NewNop()
	registry := metrics.NewRegistry()
	m := metrics.NewMetrics(registry)

	sender := cloudapi.NewCloudAPI(cfg.CloudAPI, httpclient.NewHTTPClient(cfg.CloudAPI.Timeout), validator.New())
	messages := service.NewMessageService(sender, m, logger)
	dispatcher := service.NewReplyDispatcher(messages, logger)
	webhook := service.NewWebhookService(cfg, dispatcher, m, logger)

	app := api.NewApp(m, logger)
	api.SetupRoutes(app, api.NewHandler(logger), v1.NewHandler(logger, webhook), registry)

	return &testEnv{app: app, dispatcher: dispatcher}
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, string) {
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	return resp, string(body)
}

func (e *testEnv) waitReplies(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.dispatcher.Wait(ctx))
}

func newConfig(graphURL string) *config.Config {
	return &config.Config{
		API:     config.API{Port: "3000"},
		Webhook: config.Webhook{VerifyToken: "s3cret"},
		CloudAPI: cloudapi.Config{
			BaseURL:       graphURL,
			APIVersion:    "v17.0",
			AccessToken:   "EAAG-token",
			PhoneNumberID: "1098",
			Timeout:       5 * time.Second,
		},
		Environment: "test",
	}
}

func postWebhook(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

const textMessageEvent = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "WABA-1",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "metadata": {"display_phone_number": "15550000", "phone_number_id": "1098"},
        "contacts": [{"profile": {"name": "Ana"}, "wa_id": "15551234"}],
        "messages": [{"from": "15551234", "id": "wamid.in", "timestamp": "1700000000", "type": "text", "text": {"body": "hi"}}]
      }
    }]
  }]
}`

func TestWebhookVerification(t *testing.T) {
	env := newTestEnv(t, newConfig("http://127.0.0.1:0"))

	t.Run("verified", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/webhook?hub.mode=subscribe&hub.verify_token=s3cret&hub.challenge=1158201444", nil)

		resp, body := env.do(t, req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "1158201444", body)
	})

	t.Run("challenge echoed byte for byte", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/webhook?hub.mode=subscribe&hub.verify_token=s3cret&hub.challenge=a%20b%2Bc%26d", nil)

		resp, body := env.do(t, req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "a b+c&d", body)
	})

	testCases := []struct {
		name  string
		query string
	}{
		{name: "wrong token", query: "?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=x"},
		{name: "wrong mode", query: "?hub.mode=unsubscribe&hub.verify_token=s3cret&hub.challenge=x"},
		{name: "no parameters", query: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/webhook"+tc.query, nil))

			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.Equal(t, "Forbidden", body)
		})
	}
}

func TestWebhookEvents(t *testing.T) {
	t.Run("text message is echoed to the sender", func(t *testing.T) {
		graph := newGraphStub(t, http.StatusOK)
		env := newTestEnv(t, newConfig(graph.server.URL))

		resp, body := env.do(t, postWebhook(textMessageEvent))
		env.waitReplies(t)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "EVENT_RECEIVED", body)

		sent := graph.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "/v17.0/1098/messages", sent[0].Path)
		assert.Equal(t, "Bearer EAAG-token", sent[0].Authorization)
		assert.Equal(t, "whatsapp", sent[0].Body.MessagingProduct)
		assert.Equal(t, "15551234", sent[0].Body.To)
		assert.Equal(t, "Echo: hi", sent[0].Body.Text.Body)
	})

	t.Run("message without text echoes the bare prefix", func(t *testing.T) {
		graph := newGraphStub(t, http.StatusOK)
		env := newTestEnv(t, newConfig(graph.server.URL))

		event := `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{
			"messages":[{"from":"15551234","id":"wamid.img","type":"image","image":{"id":"media-1"}}]}}]}]}`

		resp, _ := env.do(t, postWebhook(event))
		env.waitReplies(t)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		sent := graph.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "Echo: ", sent[0].Body.Text.Body)
	})

	t.Run("empty entries acknowledged without outbound call", func(t *testing.T) {
		graph := newGraphStub(t, http.StatusOK)
		env := newTestEnv(t, newConfig(graph.server.URL))

		resp, body := env.do(t, postWebhook(`{"object":"whatsapp_business_account","entry":[]}`))
		env.waitReplies(t)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "EVENT_RECEIVED", body)
		assert.Empty(t, graph.Sent())
	})

	t.Run("status update is acknowledged without outbound call", func(t *testing.T) {
		graph := newGraphStub(t, http.StatusOK)
		env := newTestEnv(t, newConfig(graph.server.URL))

		event := `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{
			"statuses":[{"id":"wamid.out","status":"delivered","timestamp":"1700000001","recipient_id":"15551234"}]}}]}]}`

		resp, _ := env.do(t, postWebhook(event))
		env.waitReplies(t)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, graph.Sent())
	})

	t.Run("unrecognized object is rejected", func(t *testing.T) {
		graph := newGraphStub(t, http.StatusOK)
		env := newTestEnv(t, newConfig(graph.server.URL))

		for _, event := range []string{
			`{"object":"page","entry":[{"changes":[{"value":{"messages":[{"from":"1","text":{"body":"hi"}}]}}]}]}`,
			`{"object":"page","entry":{"id":"x"}}`,
			`{"object":"page","entry":[{"changes":[{"value":{"messages":[{"from":15551234,"text":{"body":"hi"}}]}}]}]}`,
			`{"object":123}`,
			`{"object":null,"entry":"nope"}`,
			`[]`,
			`{"entry":[]}`,
			``,
		} {
			resp, body := env.do(t, postWebhook(event))

			assert.Equal(t, http.StatusNotFound, resp.StatusCode, event)
			assert.Equal(t, "Not a WhatsApp webhook event", body)
		}
		env.waitReplies(t)
		assert.Empty(t, graph.Sent())
	})

	t.Run("malformed entries do not block valid ones", func(t *testing.T) {
		graph := newGraphStub(t, http.StatusOK)
		env := newTestEnv(t, newConfig(graph.server.URL))

		event := `{"object":"whatsapp_business_account","entry":[
			{"id":"WABA-1","changes":[{"value":{"messages":[{"from":"15551234","id":"wamid.in","type":"text","text":{"body":"hi"}}]}}]},
			{"id":"WABA-1","changes":[{"value":{"statuses":[{"id":"wamid.out","status":"delivered","timestamp":1700000000}]}}]},
			{"id":"WABA-1","changes":[{"value":{"messages":[{"from":15559999,"text":{"body":"bad sender"}}]}}]},
			"not an entry"
		]}`

		resp, body := env.do(t, postWebhook(event))
		env.waitReplies(t)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "EVENT_RECEIVED", body)

		sent := graph.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "15551234", sent[0].Body.To)
		assert.Equal(t, "Echo: hi", sent[0].Body.Text.Body)
	})

	t.Run("entry that is not a list is acknowledged", func(t *testing.T) {
		graph := newGraphStub(t, http.StatusOK)
		env := newTestEnv(t, newConfig(graph.server.URL))

		resp, body := env.do(t, postWebhook(`{"object":"whatsapp_business_account","entry":{"id":"x"}}`))
		env.waitReplies(t)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "EVENT_RECEIVED", body)
		assert.Empty(t, graph.Sent())
	})

	t.Run("missing credentials still acknowledge", func(t *testing.T) {
		graph := newGraphStub(t, http.StatusOK)
		cfg := newConfig(graph.server.URL)
		cfg.CloudAPI.AccessToken = ""
		env := newTestEnv(t, cfg)

		resp, body := env.do(t, postWebhook(textMessageEvent))
		env.waitReplies(t)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "EVENT_RECEIVED", body)
		assert.Empty(t, graph.Sent())
	})

	t.Run("missing phone number id still acknowledges", func(t *testing.T) {
		graph := newGraphStub(t, http.StatusOK)
		cfg := newConfig(graph.server.URL)
		cfg.CloudAPI.PhoneNumberID = ""
		env := newTestEnv(t, cfg)

		resp, _ := env.do(t, postWebhook(textMessageEvent))
		env.waitReplies(t)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Empty(t, graph.Sent())
	})

	t.Run("remote failure does not change the acknowledgement", func(t *testing.T) {
		graph := newGraphStub(t, http.StatusBadRequest)
		env := newTestEnv(t, newConfig(graph.server.URL))

		resp, body := env.do(t, postWebhook(textMessageEvent))
		env.waitReplies(t)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "EVENT_RECEIVED", body)
		assert.Len(t, graph.Sent(), 1)
	})

	t.Run("transport failure does not change the acknowledgement", func(t *testing.T) {
		graph := newGraphStub(t, http.StatusOK)
		graph.server.Close()
		env := newTestEnv(t, newConfig(graph.server.URL))

		resp, body := env.do(t, postWebhook(textMessageEvent))
		env.waitReplies(t)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "EVENT_RECEIVED", body)
	})

	t.Run("malformed json is an internal error", func(t *testing.T) {
		env := newTestEnv(t, newConfig("http://127.0.0.1:0"))

		resp, body := env.do(t, postWebhook(`{"object":`))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var payload map[string]string
		require.NoError(t, json.Unmarshal([]byte(body), &payload))
		assert.Equal(t, "Internal server error", payload["error"])
		assert.Contains(t, payload["message"], "failed to parse webhook body")
	})
}

func TestHealthAndInfo(t *testing.T) {
	env := newTestEnv(t, newConfig("http://127.0.0.1:0"))

	t.Run("health", func(t *testing.T) {
		resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var health api.HealthResponse
		require.NoError(t, json.Unmarshal([]byte(body), &health))
		assert.Equal(t, "healthy", health.Status)
		assert.Equal(t, "WhatsApp Meta Cloud API Webhook", health.Service)
		_, err := time.Parse(time.RFC3339Nano, health.Timestamp)
		assert.NoError(t, err)
	})

	t.Run("info", func(t *testing.T) {
		resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var info api.InfoResponse
		require.NoError(t, json.Unmarshal([]byte(body), &info))
		assert.Equal(t, "WhatsApp Meta Cloud API Webhook Server", info.Message)
		assert.Equal(t, "running", info.Status)
		assert.Equal(t, "GET /webhook", info.Endpoints.WebhookVerification)
		assert.Equal(t, "POST /webhook", info.Endpoints.WebhookHandler)
		assert.Equal(t, "GET /health", info.Endpoints.HealthCheck)
	})

	t.Run("unknown route", func(t *testing.T) {
		resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, `"error":"Not Found"`)
	})

	t.Run("metrics exposed", func(t *testing.T) {
		env.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))

		resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "whatsapp_relay_http_requests_total")
	})
}

func TestPanicRecovered(t *testing.T) {
	env := newTestEnv(t, newConfig("http://127.0.0.1:0"))
	env.app.Get("/explode", func(c *fiber.Ctx) error {
		panic("kaboom")
	})

	resp, body := env.do(t, httptest.NewRequest(http.MethodGet, "/explode", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "kaboom")
}
