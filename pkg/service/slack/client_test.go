package slack_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/caseline/pkg/domain/model"
	"github.com/secmon-lab/caseline/pkg/domain/types"
	"github.com/secmon-lab/caseline/pkg/service/slack"
)

func TestNew(t *testing.T) {
	t.Run("returns error when token is empty", func(t *testing.T) {
		_, err := slack.New("")
		gt.Value(t, err).NotNil()
	})

	t.Run("creates service when token is provided", func(t *testing.T) {
		svc, err := slack.New("test-token")
		gt.NoError(t, err).Required()
		gt.Value(t, svc).NotNil()
	})
}

func newFakeSlack(t *testing.T, infoCalls *int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/chat.postMessage", func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, r.ParseForm()).Required()
		gt.S(t, r.PostForm.Get("channel")).Equal("C0ALARM")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"channel":"C0ALARM","ts":"1760436000.000100"}`))
	})
	mux.HandleFunc("/conversations.info", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(infoCalls, 1)
		gt.NoError(t, r.ParseForm()).Required()
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("channel") != "C0ALARM" {
			_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"channel":{"id":"C0ALARM","name":"case-alarms"}}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_PostMessage(t *testing.T) {
	var infoCalls int32
	srv := newFakeSlack(t, &infoCalls)

	svc, err := slack.New("test-token", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()

	c := &model.Case{ID: 12, Title: "Broken display", Status: types.CaseStatusReadyForPickup}
	ts, err := svc.PostMessage(context.Background(), "C0ALARM", slack.BuildAlarmBlocks(c, nil, "late"), "late")
	gt.NoError(t, err).Required()
	gt.S(t, ts).Equal("1760436000.000100")
}

func TestClient_GetChannelNames(t *testing.T) {
	var infoCalls int32
	srv := newFakeSlack(t, &infoCalls)

	svc, err := slack.New("test-token", slack.WithAPIURL(srv.URL+"/"), slack.WithCacheTTL(time.Minute))
	gt.NoError(t, err).Required()
	ctx := context.Background()

	names, err := svc.GetChannelNames(ctx, []string{"C0ALARM", "C0MISSING"})
	gt.NoError(t, err).Required()
	gt.S(t, names["C0ALARM"]).Equal("case-alarms")
	_, ok := names["C0MISSING"]
	gt.Bool(t, ok).False()

	// served from cache
	_, err = svc.GetChannelNames(ctx, []string{"C0ALARM"})
	gt.NoError(t, err).Required()
	gt.Number(t, atomic.LoadInt32(&infoCalls)).Equal(int32(2))
}

func TestIntegration(t *testing.T) {
	token := os.Getenv("TEST_SLACK_BOT_TOKEN")
	if token == "" {
		t.Skip("TEST_SLACK_BOT_TOKEN is not set")
	}
	channelID := os.Getenv("TEST_SLACK_CHANNEL_ID")
	if channelID == "" {
		t.Skip("TEST_SLACK_CHANNEL_ID is not set")
	}

	svc, err := slack.New(token)
	gt.NoError(t, err).Required()

	c := &model.Case{ID: 1, Title: "integration test", Status: types.CaseStatusInProgress}
	ts, err := svc.PostMessage(context.Background(), channelID, slack.BuildAlarmBlocks(c, nil, "integration test alarm"), "integration test alarm")
	gt.NoError(t, err).Required()
	gt.String(t, ts).NotEqual("")
}

func TestResolveChannelName(t *testing.T) {
	var infoCalls int32
	srv := newFakeSlack(t, &infoCalls)

	svc, err := slack.New("test-token", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()
	ctx := context.Background()

	t.Run("known channel", func(t *testing.T) {
		name, err := slack.ResolveChannelName(ctx, svc, "C0ALARM")
		gt.NoError(t, err).Required()
		gt.S(t, name).Equal("case-alarms")
	})

	t.Run("unknown channel", func(t *testing.T) {
		_, err := slack.ResolveChannelName(ctx, svc, "C0MISSING")
		gt.Error(t, err).Is(slack.ErrChannelNotFound)
	})
}
