package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const configPage = `<!DOCTYPE html>
<html><head><meta name="viewport" content="width=device-width"><title>Arc face</title></head>
<body>
<h3>Arc face</h3>
<img src="/frame" alt="face">
<form id="f">
<label><input type="checkbox" name="batteryPercentage"> Show battery percentage</label><br>
<label><input type="checkbox" name="showDate"> Show date</label><br>
<label><input type="checkbox" name="invertColours"> Invert colours</label><br>
<label><input type="checkbox" name="bluetoothVibrate"> Vibrate on disconnect</label><br>
<label><input type="checkbox" name="hourlyVibrate"> Vibrate every hour</label><br>
<button type="submit">Save</button>
</form>
<script>
const f = document.getElementById('f');
fetch('/settings').then(r => r.json()).then(o => {
  for (const k in o) { if (f.elements[k]) f.elements[k].checked = o[k]; }
});
f.addEventListener('submit', e => {
  e.preventDefault();
  const data = {};
  for (const el of f.elements) { if (el.name) data[el.name] = el.checked ? 1 : 0; }
  fetch('/settings', {method: 'POST', headers: {'Content-Type': 'application/json'}, body: JSON.stringify(data)})
    .then(() => location.reload());
});
</script>
</body></html>`

// faceServer exposes the face over HTTP: a preview of the last frame and
// the settings inbox.
type faceServer struct {
	loop *Loop
}

func (s *faceServer) serveFrame(c *fiber.Ctx) error {
	frame, _ := s.loop.LastFrame()
	if frame == nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("No frame available")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to encode image")
	}
	c.Set("Content-Type", "image/png")
	c.Set("Content-Length", strconv.Itoa(buf.Len()))
	return c.Send(buf.Bytes())
}

func (s *faceServer) serveFrameSVG(c *fiber.Ctx) error {
	frame, render := s.loop.LastFrame()
	if frame == nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("No frame available")
	}
	var buf bytes.Buffer
	writeFrameSVG(&buf, render)
	c.Set("Content-Type", "image/svg+xml")
	return c.Send(buf.Bytes())
}

func (s *faceServer) getSettings(c *fiber.Ctx) error {
	return c.JSON(s.loop.Options())
}

// updateSettings accepts a sparse JSON object; keys that are absent stay as they are.
func (s *faceServer) updateSettings(c *fiber.Ctx) error {
	var msg map[string]interface{}
	if err := json.Unmarshal(c.Body(), &msg); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid JSON")
	}

	patch := ParseSettingsMessage(msg)
	if patch.Empty() {
		return c.JSON(s.loop.Options())
	}
	opts, err := s.loop.ApplySettings(c.UserContext(), patch)
	if err != nil {
		log.Printf("settings update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to save settings")
	}
	return c.JSON(opts)
}

func indexHandler(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(configPage)
}

func newHTTPApp(loop *Loop) *fiber.App {
	s := &faceServer{loop: loop}
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Get("/", indexHandler)
	app.Get("/frame", s.serveFrame)
	app.Get("/frame.svg", s.serveFrameSVG)
	app.Get("/settings", s.getSettings)
	app.Post("/settings", s.updateSettings)
	return app
}

// httpServer serves until ctx is done.
func httpServer(ctx context.Context, loop *Loop, addr string) {
	app := newHTTPApp(loop)
	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			log.Printf("http shutdown: %v", err)
		}
	}()

	log.Println("Starting Fiber server on", addr)
	if err := app.Listen(addr); err != nil {
		log.Printf("http server: %v", err)
	}
}
