// Command gldemo serves a rotating pyramid rendered with glsurface, or
// renders one frame of it to a PNG file.
package main

import (
	"errors"
	"flag"
	"html/template"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gogpu/glsurface"
	"github.com/gogpu/glsurface/web"
)

const surfaceID = "demo"

func main() {
	var (
		configPath = flag.String("config", "", "TOML configuration file")
		addr       = flag.String("addr", "", "listen address (overrides the configuration)")
		width      = flag.Int("width", 0, "surface width (overrides the configuration)")
		height     = flag.Int("height", 0, "surface height (overrides the configuration)")
		device     = flag.String("device", "", "server device (overrides the configuration)")
		output     = flag.String("render", "", "render one server-side frame to this PNG file and exit")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		glsurface.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := glsurface.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = glsurface.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *device != "" {
		cfg.Device = *device
	}

	if *output != "" {
		if err := renderFrame(cfg, *output); err != nil {
			log.Fatalf("Failed to render: %v", err)
		}
		log.Printf("Frame saved to %s (%dx%d)\n", *output, cfg.Width, cfg.Height)
		return
	}

	if err := serve(cfg); err != nil {
		log.Fatal(err)
	}
}

// renderFrame renders the scene once on the server backend and writes the
// frame.
func renderFrame(cfg glsurface.Config, path string) error {
	cfg.Render.Client = false
	cfg.Render.Server = true
	sc := &spinner{}
	sc.Step(0.6)
	opts := append(cfg.Options(), glsurface.WithID(surfaceID), glsurface.WithClientCapable(false))
	s, err := glsurface.New(sc, opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	out, err := s.Render()
	if err != nil {
		return err
	}
	if out.Frame == nil {
		return errors.New("no frame rendered")
	}
	return os.WriteFile(path, out.Frame.Payload, 0o600)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>glsurface demo</title></head>
<body>
<h1>glsurface demo</h1>
<p>Drag to orbit the camera.</p>
{{.}}
</body>
</html>
`))

// serve hosts the scene and advances its rotation until the process ends.
func serve(cfg glsurface.Config) error {
	sc := &spinner{}
	s, err := glsurface.New(sc, append(cfg.Options(), glsurface.WithID(surfaceID))...)
	if err != nil {
		return err
	}
	h := web.NewHost()
	defer h.Close()
	if err := h.Add(s); err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/", h)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		page, err := h.Page(surfaceID, r.Header.Get("Accept-Language"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTemplate.Execute(w, page); err != nil {
			log.Printf("index: %v", err)
		}
	})

	go animate(h, sc)

	log.Printf("Serving on %s\n", cfg.Server.Addr)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func animate(h *web.Host, sc *spinner) {
	t := time.NewTicker(50 * time.Millisecond)
	defer t.Stop()
	for range t.C {
		err := h.Do(surfaceID, func(s *glsurface.Surface) error {
			sc.Step(0.05)
			s.RepaintGL(glsurface.RepaintUpdate | glsurface.RepaintPaint)
			return nil
		})
		if err != nil {
			log.Printf("animate: %v", err)
			return
		}
	}
}
