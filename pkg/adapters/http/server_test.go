package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/fomod"
	"github.com/aretw0/fomod/internal/testutils"
	"github.com/aretw0/fomod/pkg/adapters/memory"
	"github.com/aretw0/fomod/pkg/domain"
	"github.com/aretw0/fomod/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	return NewHandler(fomod.New(), session.NewManager(memory.NewStore()))
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, h http.Handler) fomod.View {
	t.Helper()
	w := do(t, h, "POST", "/sessions", CreateRequest{
		ModuleConfig: testutils.ModuleConfigXML,
		Info:         testutils.InfoXML,
		ArchiveName:  "sample.7z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var view fomod.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.NotEmpty(t, view.SessionID)
	assert.Equal(t, "/sessions/"+view.SessionID, w.Header().Get("Location"))
	return view
}

func TestHealthAndInfo(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"app":"fomod-http"`)
}

func TestValidate(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, "POST", "/validate", testutils.ModuleConfigXML)
	require.Equal(t, http.StatusOK, w.Code)
	var ok ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ok))
	assert.True(t, ok.Valid)
	assert.Equal(t, "Sample Mod", ok.Module)
	assert.Equal(t, 2, ok.Steps)

	w = do(t, h, "POST", "/validate", `<config><installSteps/></config>`)
	require.Equal(t, http.StatusOK, w.Code)
	var bad ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bad))
	assert.False(t, bad.Valid)
	assert.Contains(t, bad.Problems, "module name is missing")
}

func TestSessionLifecycle(t *testing.T) {
	h := newTestHandler(t)
	view := createSession(t, h)
	id := view.SessionID

	assert.Equal(t, "Sample Mod", view.Module)
	require.NotNil(t, view.Step)
	assert.Equal(t, "Core", view.Step.Name)
	assert.Equal(t, []string{"Core", "Extras"}, view.VisibleSteps)

	w := do(t, h, "GET", "/sessions/", nil)
	assert.JSONEq(t, `{"sessions":["`+id+`"]}`, w.Body.String())

	// Core Files is required and cannot be deselected.
	w = do(t, h, "POST", "/sessions/"+id+"/select", SelectRequest{
		Step: "Core", Group: "Essentials", Option: "Core Files", Selected: false,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp ActionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Accepted)

	w = do(t, h, "POST", "/sessions/"+id+"/forward", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Accepted)
	assert.Equal(t, "Extras", resp.View.Step.Name)
	assert.True(t, resp.View.IsLast)

	w = do(t, h, "POST", "/sessions/"+id+"/select", SelectRequest{
		Step: "Extras", Group: "Addons", Option: "Patch", Selected: true,
	})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Accepted)

	// The cursor survived the round trip through the store.
	w = do(t, h, "GET", "/sessions/"+id, nil)
	var current fomod.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &current))
	assert.Equal(t, "Extras", current.Step.Name)

	w = do(t, h, "GET", "/sessions/"+id+"/flags", nil)
	assert.JSONEq(t, `{"HasCore":"true","Textures":"hd"}`, w.Body.String())

	w = do(t, h, "GET", "/sessions/"+id+"/plan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var manifest domain.Manifest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &manifest))
	assert.Equal(t, "Sample Mod", manifest.Name)
	assert.Equal(t, "2.1", manifest.Version)
	targets := make([]string, 0, len(manifest.Files))
	for _, f := range manifest.Files {
		targets = append(targets, f.Destination)
	}
	assert.Contains(t, targets, "textures.bsa")
	assert.Contains(t, targets, "patch/patch.esp")

	w = do(t, h, "DELETE", "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, h, "GET", "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateSession_Errors(t *testing.T) {
	h := newTestHandler(t)

	w := do(t, h, "POST", "/sessions", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "POST", "/sessions", CreateRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "POST", "/sessions", CreateRequest{ModuleConfig: "<config>"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid module configuration", resp.Error)
	assert.NotEmpty(t, resp.Problems)
}

func TestUnknownSession(t *testing.T) {
	h := newTestHandler(t)
	for _, path := range []string{"/sessions/ghost", "/sessions/ghost/plan", "/sessions/ghost/events"} {
		w := do(t, h, "GET", path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
	w := do(t, h, "POST", "/sessions/ghost/forward", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscribeEvents_Session(t *testing.T) {
	h := newTestHandler(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	view := createSession(t, h)
	id := view.SessionID

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/sessions/"+id+"/events", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	lines := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(res.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	next := func() string {
		select {
		case l, ok := <-lines:
			if !ok {
				t.Fatal("stream closed")
			}
			return l
		case <-ctx.Done():
			t.Fatal("timed out waiting for event")
		}
		return ""
	}

	assert.Equal(t, "event: ping", next())
	assert.Equal(t, "data: connected", next())
	next() // blank separator

	w := do(t, srv.Config.Handler, "POST", "/sessions/"+id+"/forward", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "event: view", next())
	data := next()
	require.True(t, strings.HasPrefix(data, "data: "), data)

	var pushed fomod.View
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(data, "data: ")), &pushed))
	assert.Equal(t, "Extras", pushed.Step.Name)
}

func TestStreamManager(t *testing.T) {
	sm := NewStreamManager()
	ch, unsubscribe := sm.Subscribe("s")
	assert.Equal(t, 1, sm.Subscribers("s"))

	sm.Broadcast("s", "hello")
	sm.Broadcast("other", "ignored")
	assert.Equal(t, "hello", <-ch)

	unsubscribe()
	assert.Equal(t, 0, sm.Subscribers("s"))
	_, open := <-ch
	assert.False(t, open)
}
