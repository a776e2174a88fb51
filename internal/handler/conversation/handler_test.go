package conversation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	conv "github.com/brewandco/brew-counter/internal/model/conversation"
	"github.com/brewandco/brew-counter/internal/model/order"
	convservice "github.com/brewandco/brew-counter/internal/service/conversation"
)

type replyEngine struct {
	reply string
}

func (e replyEngine) Complete(_ context.Context, _ []conv.Turn) (string, error) {
	return e.reply, nil
}

type capturePlacer struct {
	customerName string
}

func (p *capturePlacer) Place(_ context.Context, rec order.Receipt, customerName string) (order.Order, error) {
	p.customerName = customerName
	return order.Order{OrderID: "o1", Status: order.StatusPending, Items: rec.Items, Total: rec.Total}, nil
}

func newTestRouter(svc *convservice.Service) http.Handler {
	r := chi.NewRouter()
	New(svc).RegisterRoutes(r)
	return r
}

func TestCreateSessionReturnsWelcome(t *testing.T) {
	svc := convservice.NewService(replyEngine{"hi"}, nil)
	router := newTestRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Session struct {
			ID    string `json:"id"`
			State string `json:"state"`
		} `json:"session"`
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Session.ID == "" || body.Session.State != "active" {
		t.Fatalf("unexpected session: %+v", body.Session)
	}
	if !strings.Contains(body.Reply, "Brew & Co") {
		t.Fatalf("welcome line missing: %q", body.Reply)
	}
}

func TestSubmitMessageRoundTrip(t *testing.T) {
	svc := convservice.NewService(replyEngine{"Great choice! Anything else?"}, nil)
	router := newTestRouter(svc)

	sessionID := createSession(t, router)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session/"+sessionID+"/messages",
		strings.NewReader(`{"text":"a latte please"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	var body submitResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Reply != "Great choice! Anything else?" {
		t.Fatalf("unexpected reply: %q", body.Reply)
	}
	if body.Finalized || body.Receipt != nil {
		t.Fatalf("turn should not finalize: %+v", body)
	}
	if body.State != "active" {
		t.Fatalf("state = %s", body.State)
	}
}

func TestSubmitFinalizingMessage(t *testing.T) {
	reply := "All set! ORDER_RECEIPT_START " +
		`{"items":[{"name":"Latte","size":"medium","milk":"oat milk","price":6.25,"quantity":1}],"total":6.25}` +
		" ORDER_RECEIPT_END"
	placer := &capturePlacer{}
	svc := convservice.NewService(replyEngine{reply}, placer)
	router := newTestRouter(svc)

	sessionID := createSession(t, router)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session/"+sessionID+"/messages",
		strings.NewReader(`{"text":"that's all","customerName":"Sam"}`))
	router.ServeHTTP(rec, req)

	var body submitResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if body.Reply != "All set!" {
		t.Fatalf("receipt not stripped from reply: %q", body.Reply)
	}
	if !body.Finalized || body.Receipt == nil || body.Order == nil {
		t.Fatalf("expected finalized turn with receipt and order: %+v", body)
	}
	if body.State != "finalized" {
		t.Fatalf("state = %s", body.State)
	}
	if placer.customerName != "Sam" {
		t.Fatalf("customer name not forwarded: %q", placer.customerName)
	}

	// Further messages are refused.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/session/"+sessionID+"/messages",
		strings.NewReader(`{"text":"one more"}`))
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("finalized session must reject messages, got %d", rec.Code)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc := convservice.NewService(replyEngine{"ok"}, nil)
	router := newTestRouter(svc)
	sessionID := createSession(t, router)

	cases := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"blank text", "/session/" + sessionID + "/messages", `{"text":"  "}`, http.StatusBadRequest},
		{"bad json", "/session/" + sessionID + "/messages", `{`, http.StatusBadRequest},
		{"unknown session", "/session/nope/messages", `{"text":"hi"}`, http.StatusNotFound},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, tc.target, strings.NewReader(tc.body))
		router.ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.status)
		}
	}
}

func TestTranscript(t *testing.T) {
	svc := convservice.NewService(replyEngine{"Sure thing."}, nil)
	router := newTestRouter(svc)
	sessionID := createSession(t, router)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/session/"+sessionID+"/messages",
		strings.NewReader(`{"text":"an americano"}`))
	router.ServeHTTP(rec, req)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session/"+sessionID+"/transcript", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Turns []struct {
			Role string `json:"role"`
			Text string `json:"text"`
		} `json:"turns"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Welcome, user turn, agent reply.
	if len(body.Turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(body.Turns))
	}
	if body.Turns[0].Role != "agent" || body.Turns[1].Role != "user" || body.Turns[2].Role != "agent" {
		t.Fatalf("unexpected roles: %+v", body.Turns)
	}
}

func createSession(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/session", nil))

	var body struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return body.Session.ID
}
