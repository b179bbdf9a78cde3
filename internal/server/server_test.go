package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatllm/internal/services"
	"chatllm/internal/session"
	"chatllm/internal/testutils"
	"chatllm/pkg/chattypes"
)

const (
	defaultModel  = "llama3-70b-8192"
	thinkingModel = "deepseek-r1-distill-llama-70b"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	config := services.NewConfigurationService(services.ConfigurationOptions{
		WorkDir:   t.TempDir(),
		ConfigDir: t.TempDir(),
		Getenv:    func(string) string { return "" },
		TestMode:  true,
	})
	require.NoError(t, config.Initialize())
	catalog := services.NewModelCatalogService()
	require.NoError(t, catalog.Initialize())
	models := services.NewModelService(config, catalog)
	require.NoError(t, models.Initialize())

	llm := services.NewLLMService(services.NewMockLLMClient(thinkingModel), "")
	require.NoError(t, llm.Initialize())
	chat := services.NewChatService(llm, models)
	require.NoError(t, chat.Initialize())

	srv := New(Options{
		Chat:   chat,
		Models: models,
		NewStore: func() *session.Store {
			ids := &testutils.SequentialIDs{}
			return session.NewWithGenerators(testutils.FixedClock(testutils.At(10, 0, 0)), ids.Next)
		},
		Registry: prometheus.NewRegistry(),
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads events up to and including the first event of type last.
func readUntil(t *testing.T, conn *websocket.Conn, last string) []Event {
	t.Helper()
	var events []Event
	for {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var ev Event
		require.NoError(t, conn.ReadJSON(&ev))
		events = append(events, ev)
		if ev.Type == last {
			return events
		}
	}
}

func eventTypes(events []Event) []string {
	types := make([]string, len(events))
	for i, ev := range events {
		types[i] = ev.Type
	}
	return types
}

func fragmentText(events []Event) string {
	var sb strings.Builder
	for _, ev := range events {
		if ev.Type == EventFragment {
			sb.WriteString(ev.Text)
		}
	}
	return sb.String()
}

func send(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

func connectReady(t *testing.T, ts *httptest.Server) (*websocket.Conn, Event) {
	t.Helper()
	conn := dial(t, ts)
	events := readUntil(t, conn, EventHistory)
	require.Equal(t, []string{EventState, EventHistory}, eventTypes(events))
	return conn, events[0]
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServer_Healthz(t *testing.T) {
	ts := newTestServer(t)
	status, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok\n", body)
}

func TestServer_Index(t *testing.T) {
	ts := newTestServer(t)
	status, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<title>chatllm</title>")
	assert.Contains(t, body, `"/ws"`)
}

func TestServer_InitialState(t *testing.T) {
	ts := newTestServer(t)
	_, state := connectReady(t, ts)

	assert.Len(t, state.Models, 6)
	assert.Equal(t, defaultModel, state.Model)
	assert.Equal(t, "groq", state.Provider)
	assert.Equal(t, []string{session.ActiveLabel}, state.Labels)
	assert.Equal(t, session.ActiveLabel, state.Current)
}

func TestServer_PromptStreams(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := connectReady(t, ts)

	send(t, conn, ClientMessage{Type: MsgPrompt, Text: "hello"})
	events := readUntil(t, conn, EventStreamEnd)

	require.GreaterOrEqual(t, len(events), 4)
	assert.Equal(t, EventMessage, events[0].Type)
	assert.Equal(t, chattypes.RoleUser, events[0].Message.Role)
	assert.Equal(t, "hello", events[0].Message.Content.Text)
	assert.Equal(t, EventStreamStart, events[1].Type)
	assert.Equal(t, chattypes.RoleAssistant, events[1].Role)
	assert.Equal(t, "Echo from llama3-70b-8192: hello", fragmentText(events))
}

func TestServer_ThinkingModel(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := connectReady(t, ts)

	send(t, conn, ClientMessage{Type: MsgModel, Model: thinkingModel})
	events := readUntil(t, conn, EventHistory)
	assert.Equal(t, thinkingModel, events[0].Model)
	require.Len(t, events[1].Messages, 1)
	assert.Equal(t, "Model changed to "+thinkingModel, events[1].Messages[0].Content.Text)

	send(t, conn, ClientMessage{Type: MsgPrompt, Text: "why"})
	events = readUntil(t, conn, EventStatusClear)
	assert.Equal(t, []string{EventMessage, EventStatus, EventStatusClear}, eventTypes(events))
	assert.Equal(t, services.ThinkingStatus, events[1].Text)

	events = readUntil(t, conn, EventMessage)
	require.Len(t, events, 1)
	reply := events[0].Message
	assert.Equal(t, chattypes.ContentThinkingAndFinal, reply.Content.Kind)
	assert.Equal(t, "The user said: why", reply.Content.Thinking)
	assert.Equal(t, "Echo from "+thinkingModel+": why", reply.Content.Final)
}

func TestServer_NewSelectResume(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := connectReady(t, ts)

	send(t, conn, ClientMessage{Type: MsgPrompt, Text: "Hello world this is a test"})
	readUntil(t, conn, EventStreamEnd)

	send(t, conn, ClientMessage{Type: MsgNew})
	events := readUntil(t, conn, EventHistory)
	label := "Hello world this is  - 10:00:00"
	assert.Equal(t, []string{session.ActiveLabel, label}, events[0].Labels)
	assert.Empty(t, events[1].Messages)

	send(t, conn, ClientMessage{Type: MsgSelect, Label: label})
	events = readUntil(t, conn, EventHistory)
	assert.Equal(t, label, events[0].Current)
	assert.Len(t, events[1].Messages, 2)

	send(t, conn, ClientMessage{Type: MsgPrompt, Text: "follow up"})
	events = readUntil(t, conn, EventState)
	state := events[len(events)-1]
	assert.Equal(t, session.ActiveLabel, state.Current)

	send(t, conn, ClientMessage{Type: MsgSelect, Label: label})
	events = readUntil(t, conn, EventHistory)
	assert.Len(t, events[1].Messages, 4, "archive entry synced with the resumed turn")
}

func TestServer_Errors(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := connectReady(t, ts)

	tests := []struct {
		msg  ClientMessage
		want string
	}{
		{ClientMessage{Type: MsgSelect, Label: "missing"}, "conversation not found"},
		{ClientMessage{Type: MsgModel, Model: "gpt-99"}, "unknown model"},
		{ClientMessage{Type: MsgPrompt, Text: "  "}, "prompt cannot be empty"},
		{ClientMessage{Type: "dance"}, "unknown message type dance"},
	}
	for _, tt := range tests {
		send(t, conn, tt.msg)
		events := readUntil(t, conn, EventError)
		require.Len(t, events, 1)
		assert.True(t, strings.HasPrefix(events[0].Text, "Error: "))
		assert.Contains(t, events[0].Text, tt.want)
	}
}

func TestServer_ConnectionsAreIsolated(t *testing.T) {
	ts := newTestServer(t)
	first, _ := connectReady(t, ts)
	second, _ := connectReady(t, ts)

	send(t, first, ClientMessage{Type: MsgPrompt, Text: "only on the first tab"})
	readUntil(t, first, EventStreamEnd)
	send(t, first, ClientMessage{Type: MsgNew})
	events := readUntil(t, first, EventHistory)
	assert.Len(t, events[0].Labels, 2)

	send(t, second, ClientMessage{Type: MsgNew})
	events = readUntil(t, second, EventHistory)
	assert.Equal(t, []string{session.ActiveLabel}, events[0].Labels)
	assert.Empty(t, events[1].Messages)
}

func TestServer_Metrics(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := connectReady(t, ts)

	send(t, conn, ClientMessage{Type: MsgPrompt, Text: "count me"})
	readUntil(t, conn, EventStreamEnd)
	// Messages are handled in order, so the prompt is accounted once this returns.
	send(t, conn, ClientMessage{Type: MsgNew})
	readUntil(t, conn, EventHistory)

	status, body := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `chatllm_prompts_total{model="llama3-70b-8192",outcome="ok"} 1`)
	assert.Contains(t, body, "chatllm_websocket_connections 1")
	assert.Contains(t, body, "chatllm_stream_fragments_total")
	assert.Contains(t, body, "chatllm_turn_duration_seconds_count")
}
