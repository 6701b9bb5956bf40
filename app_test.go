package knobs

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/knobs-dev/knobs/pkg/protocol"
)

// numberMount builds a document holding one number field and reports
// the control's node id. The channel needs room for two sends: New
// mounts once for the page snapshot, then each session mounts again.
func numberMount(ids chan<- uint64) Mount {
	return func(doc *Document) error {
		field := NewNumber(WithLabel("Level"), WithMin(0), WithMax(100))
		ids <- field.Control().ID()
		return doc.Root().AppendChild(field.Node())
	}
}

func newTestApp(t *testing.T, config Config) *App {
	t.Helper()
	if config.Mount == nil {
		config.Mount = func(doc *Document) error { return nil }
	}
	app, err := New(config)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return app
}

func get(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body failed: %v", err)
	}
	return string(b)
}

func TestNewRequiresMount(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("New() without Mount succeeded")
	}
}

func TestNewRejectsFailingMount(t *testing.T) {
	mount := func(doc *Document) error { return errors.New("boom") }
	if _, err := New(Config{Mount: mount}); err == nil {
		t.Fatal("New() with a failing mount succeeded")
	}
}

func TestIndexServesShell(t *testing.T) {
	ts := httptest.NewServer(newTestApp(t, Config{Title: "demo <app>"}))
	defer ts.Close()

	resp := get(t, ts, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}

	body := readAll(t, resp.Body)
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<div id="knobs-root">`,
		`<script src="/client.js" defer>`,
		`<link rel="stylesheet" href="/knobs.css">`,
		"<title>demo &lt;app&gt;</title>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("shell missing %q", want)
		}
	}
}

func TestIndexCarriesRenderedDocument(t *testing.T) {
	ids := make(chan uint64, 1)
	ts := httptest.NewServer(newTestApp(t, Config{Mount: numberMount(ids)}))
	defer ts.Close()

	body := readAll(t, get(t, ts, "/").Body)
	id := <-ids
	if !strings.Contains(body, `data-k="`+strconv.FormatUint(id, 10)+`"`) {
		t.Error("shell missing the mounted control")
	}
	if !strings.Contains(body, "Level") {
		t.Error("shell missing the mounted label")
	}
}

func TestUnknownPathIs404(t *testing.T) {
	ts := httptest.NewServer(newTestApp(t, Config{}))
	defer ts.Close()

	if resp := get(t, ts, "/nope"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := httptest.NewServer(newTestApp(t, Config{}))
	defer ts.Close()

	resp := get(t, ts, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body := readAll(t, resp.Body); body != "ok\n" {
		t.Errorf("body = %q, want ok", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := httptest.NewServer(newTestApp(t, Config{}))
	defer ts.Close()

	resp := get(t, ts, "/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestAssetServing(t *testing.T) {
	ts := httptest.NewServer(newTestApp(t, Config{}))
	defer ts.Close()

	resp := get(t, ts, "/client.js")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/javascript") {
		t.Errorf("Content-Type = %q, want application/javascript", ct)
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("nosniff header missing")
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "public, max-age=0, must-revalidate" {
		t.Errorf("Cache-Control = %q, want revalidate policy", cc)
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("ETag missing")
	}
	if body := readAll(t, resp.Body); !strings.Contains(body, "data-on-") {
		t.Error("client script does not wire event markers")
	}

	t.Run("etag revalidation", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, ts.URL+"/client.js", nil)
		req.Header.Set("If-None-Match", etag)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotModified {
			t.Errorf("status = %d, want 304", resp.StatusCode)
		}
	})

	t.Run("weak etag revalidation", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, ts.URL+"/client.js", nil)
		req.Header.Set("If-None-Match", "W/"+etag)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusNotModified {
			t.Errorf("status = %d, want 304", resp.StatusCode)
		}
	})

	t.Run("head", func(t *testing.T) {
		resp, err := http.Head(ts.URL + "/knobs.css")
		if err != nil {
			t.Fatalf("HEAD failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		if body := readAll(t, resp.Body); body != "" {
			t.Errorf("HEAD body = %q, want empty", body)
		}
	})

	t.Run("stylesheet", func(t *testing.T) {
		resp := get(t, ts, "/knobs.css")
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
			t.Errorf("Content-Type = %q, want text/css", ct)
		}
	})
}

func TestDevModeDisablesAssetCaching(t *testing.T) {
	ts := httptest.NewServer(newTestApp(t, Config{Dev: true}))
	defer ts.Close()

	resp := get(t, ts, "/client.js")
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}
}

func TestUploadEndpoint(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewDiskStore() error: %v", err)
	}
	ts := httptest.NewServer(newTestApp(t, Config{UploadStore: store}))
	defer ts.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "notes.txt")
	if err != nil {
		t.Fatalf("CreateFormFile() error: %v", err)
	}
	if _, err := io.WriteString(part, "hello"); err != nil {
		t.Fatalf("write part failed: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}

	resp, err := http.Post(ts.URL+"/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST /upload failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var desc UploadFile
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		t.Fatalf("decode descriptor failed: %v", err)
	}
	if desc.Key == "" {
		t.Error("descriptor has no key")
	}
	if desc.Name != "notes.txt" {
		t.Errorf("Name = %q, want notes.txt", desc.Name)
	}
	if desc.Size != 5 {
		t.Errorf("Size = %d, want 5", desc.Size)
	}
}

func TestUploadDisabledWithoutStore(t *testing.T) {
	ts := httptest.NewServer(newTestApp(t, Config{}))
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/upload", "text/plain", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("POST /upload failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func dialWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial(%q) failed: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrameOfType(t *testing.T, conn *websocket.Conn, want protocol.FrameType) *protocol.Frame {
	t.Helper()
	for i := 0; i < 10; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			t.Fatalf("DecodeFrame failed: %v", err)
		}
		if frame.Type == want {
			return frame
		}
	}
	t.Fatalf("no %s frame after 10 reads", want)
	return nil
}

func TestLiveSessionThroughApp(t *testing.T) {
	ids := make(chan uint64, 2)
	ts := httptest.NewServer(newTestApp(t, Config{Mount: numberMount(ids)}))
	defer ts.Close()

	conn := dialWS(t, "ws"+strings.TrimPrefix(ts.URL, "http")+"/live")

	hello := protocol.NewFrame(protocol.FrameHello,
		protocol.EncodeClientHello(&protocol.ClientHello{Page: "/"}))
	if err := conn.WriteMessage(websocket.BinaryMessage, hello.Encode()); err != nil {
		t.Fatalf("write hello failed: %v", err)
	}

	reply, err := protocol.DecodeServerHello(readFrameOfType(t, conn, protocol.FrameHello).Body)
	if err != nil {
		t.Fatalf("DecodeServerHello failed: %v", err)
	}
	if reply.Status != protocol.HelloOK {
		t.Fatalf("Status = %v, want HelloOK", reply.Status)
	}

	initial, err := protocol.DecodePatches(readFrameOfType(t, conn, protocol.FramePatches).Body)
	if err != nil {
		t.Fatalf("DecodePatches failed: %v", err)
	}
	<-ids // the snapshot's control, rendered at New
	id := <-ids
	if len(initial.Patches) != 1 || initial.Patches[0].Op != protocol.PatchInsertNode {
		t.Fatalf("initial patches = %+v, want one InsertNode", initial.Patches)
	}
	if !strings.Contains(initial.Patches[0].Value, `data-k="`+strconv.FormatUint(id, 10)+`"`) {
		t.Errorf("fragment %q missing the control's node id", initial.Patches[0].Value)
	}

	event := protocol.NewFrame(protocol.FrameEvent, protocol.EncodeEvent(&protocol.EventFrame{
		Seq:   1,
		Type:  protocol.EventInput,
		Node:  id,
		Value: "42",
	}))
	if err := conn.WriteMessage(websocket.BinaryMessage, event.Encode()); err != nil {
		t.Fatalf("write event failed: %v", err)
	}

	update, err := protocol.DecodePatches(readFrameOfType(t, conn, protocol.FramePatches).Body)
	if err != nil {
		t.Fatalf("DecodePatches failed: %v", err)
	}
	want := protocol.NewSetValuePatch(id, "42")
	if len(update.Patches) != 1 || update.Patches[0] != want {
		t.Errorf("patches = %+v, want %+v", update.Patches, want)
	}
}

func TestShutdownWithoutRun(t *testing.T) {
	app := newTestApp(t, Config{})
	if err := app.Shutdown(t.Context()); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}
}
