package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func decodeOptions(t *testing.T, body io.Reader) DisplayOptions {
	t.Helper()
	var o DisplayOptions
	if err := json.NewDecoder(body).Decode(&o); err != nil {
		t.Fatalf("decoding options: %v", err)
	}
	return o
}

func TestHTTPSettings(t *testing.T) {
	store := newMemStore()
	loop, _, cancel, errc := startLoop(t, store, at(7, 30, 0))
	defer func() { cancel(); <-errc }()
	app := newHTTPApp(loop)

	resp, err := app.Test(httptest.NewRequest("GET", "/settings", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("GET /settings status = %d", resp.StatusCode)
	}
	if got := decodeOptions(t, resp.Body); got != DefaultOptions() {
		t.Errorf("GET /settings = %+v; want defaults", got)
	}

	req := httptest.NewRequest("POST", "/settings", strings.NewReader(`{"showDate": 0, "hourlyVibrate": true}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("POST /settings status = %d", resp.StatusCode)
	}
	want := DisplayOptions{ShowBatteryPercentage: true, HourlyVibrate: true}
	if got := decodeOptions(t, resp.Body); got != want {
		t.Errorf("POST /settings = %+v; want %+v", got, want)
	}
	if _, ok := store.values[KEY_INVERT_COLOURS]; ok {
		t.Error("absent key was written")
	}
}

func TestHTTPSettingsInvalidJSON(t *testing.T) {
	loop, _, cancel, errc := startLoop(t, newMemStore(), at(7, 30, 0))
	defer func() { cancel(); <-errc }()

	req := httptest.NewRequest("POST", "/settings", strings.NewReader(`{"showDate":`))
	resp, err := newHTTPApp(loop).Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d; want 400", resp.StatusCode)
	}
}

func TestHTTPFrame(t *testing.T) {
	loop, _, cancel, errc := startLoop(t, newMemStore(), at(7, 30, 0))
	defer func() { cancel(); <-errc }()
	app := newHTTPApp(loop)

	resp, err := app.Test(httptest.NewRequest("GET", "/frame", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("GET /frame status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	if img.Bounds() != faceBounds {
		t.Errorf("png bounds = %v; want %v", img.Bounds(), faceBounds)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/frame.svg", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !bytes.Contains(body, []byte("<svg")) || !bytes.Contains(body, []byte("<line")) {
		t.Error("svg export missing arc lines")
	}
}

func TestHTTPFrameBeforeFirstRender(t *testing.T) {
	s := NewSession(testFaceConfig(), newMemStore(), nil, fixedClock{T: at(7, 0, 0)}, nil)
	app := newHTTPApp(newLoop(s, faceBounds))

	for _, path := range []string{"/frame", "/frame.svg"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusServiceUnavailable {
			t.Errorf("GET %s status = %d; want 503", path, resp.StatusCode)
		}
	}
}

func TestHTTPIndex(t *testing.T) {
	s := NewSession(testFaceConfig(), newMemStore(), nil, nil, nil)
	resp, err := newHTTPApp(newLoop(s, faceBounds)).Test(httptest.NewRequest("GET", "/", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `name="hourlyVibrate"`) {
		t.Error("config page missing the hourly vibrate switch")
	}
}

func TestHTTPSettingsNoKnownKeys(t *testing.T) {
	store := newMemStore()
	loop, _, cancel, errc := startLoop(t, store, at(7, 30, 0))
	defer func() { cancel(); <-errc }()

	req := httptest.NewRequest("POST", "/settings", strings.NewReader(`{"brightness": 3}`))
	resp, err := newHTTPApp(loop).Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d; want 200", resp.StatusCode)
	}
	if got := decodeOptions(t, resp.Body); got != DefaultOptions() {
		t.Errorf("options = %+v; want defaults", got)
	}
	if len(store.values) != 0 {
		t.Errorf("nothing should be written, store = %v", store.values)
	}
}
