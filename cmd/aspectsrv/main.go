package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"golang.org/x/time/rate"

	yml "gopkg.in/yaml.v2"

	"github.jpl.nasa.gov/bdube/aspect/aspect"
	"github.jpl.nasa.gov/bdube/aspect/camera"
	"github.jpl.nasa.gov/bdube/aspect/fitsrec"
	asphttp "github.jpl.nasa.gov/bdube/aspect/generichttp/aspect"
	"github.jpl.nasa.gov/bdube/aspect/mailbox"
	"github.jpl.nasa.gov/bdube/aspect/server/middleware/locker"
)

var (
	// Version is the version number, typically injected via ldflags
	// with git at build time.
	Version = "1"

	// ConfigFileName is the configuration file this program looks for
	// in its working directory.
	ConfigFileName = "aspectsrv.yml"

	k = koanf.New(".")
)

type recorderConfig struct {
	Root    string `yaml:"Root"`
	Prefix  string `yaml:"Prefix"`
	Enabled bool   `yaml:"Enabled"`
}

type mockConfig struct {
	// Enabled runs a synthetic camera.MockSource instead of polling a
	// real frame source, for demos and integration tests without
	// hardware on hand.
	Enabled bool    `yaml:"Enabled"`
	Width   int     `yaml:"Width"`
	Height  int     `yaml:"Height"`
	CenterX float64 `yaml:"CenterX"`
	CenterY float64 `yaml:"CenterY"`
	Radius  float64 `yaml:"Radius"`
}

type config struct {
	Addr         string         `yaml:"Addr"`
	Root         string         `yaml:"Root"`
	PollHz       float64        `yaml:"PollHz"`
	Aspect       aspect.Config  `yaml:"Aspect"`
	Recorder     recorderConfig `yaml:"Recorder"`
	Mock         mockConfig     `yaml:"Mock"`
}

func setupconfig() {
	k.Load(structs.Provider(config{
		Addr:     ":8001",
		Root:     "/",
		PollHz:   2,
		Aspect:   aspect.DefaultConfig(),
		Recorder: recorderConfig{Root: "/data/aspect", Prefix: "aspect_"},
		Mock: mockConfig{
			Enabled: true,
			Width:   1024, Height: 1024,
			CenterX: 512, CenterY: 512,
			Radius: 400,
		},
	}, "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		errtxt := err.Error()
		if !strings.Contains(errtxt, "no such") {
			log.Fatalf("error loading config: %v", err)
		}
	}
}

func root() {
	str := `aspectsrv exposes the solar-pointing aspect-determination pipeline over HTTP.

Usage:
	aspectsrv <command>

Commands:
	run
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `aspectsrv is configured via its .yaml file. For a primer on YAML, see
https://yaml.org/start.html

When no configuration is provided, the defaults are used. The command
mkconf generates the configuration file with the default values.

Mock.Enabled runs a synthetic frame source instead of polling real
camera hardware, which this repository does not talk to directly —
wire a camera.Source implementation in over the camera package's
interface to point aspectsrv at a real sensor.`
	fmt.Println(str)
}

func mkconf() {
	c := config{}
	if err := k.Unmarshal("", &c); err != nil {
		log.Fatal(err)
	}
	f, err := os.Create(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := yml.NewEncoder(f).Encode(c); err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c := config{}
	if err := k.Unmarshal("", &c); err != nil {
		log.Fatal(err)
	}
	if err := yml.NewEncoder(os.Stdout).Encode(c); err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("aspectsrv version %v\n", Version)
}

// buildSource constructs the frame source this process polls, per cfg.
func buildSource(cfg config) camera.Source {
	if cfg.Mock.Enabled {
		return camera.MockSource{
			Width: cfg.Mock.Width, Height: cfg.Mock.Height,
			Background: 20, Disk: 200,
			CenterX: cfg.Mock.CenterX, CenterY: cfg.Mock.CenterY,
			Radius: cfg.Mock.Radius,
		}
	}
	log.Fatal("no camera.Source configured; set Mock.Enabled or wire one in")
	return nil
}

// pollLoop polls src at cfg.PollHz and publishes every successful
// acquisition into box, until ctx is done.
func pollLoop(ctx context.Context, src camera.Source, box *mailbox.Mailbox) {
	poller := camera.PollingSource{Inner: src, MaxWait: 5 * time.Second}
	for {
		frame, status, err := poller.Acquire(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("acquire failed: %v", err)
			continue
		}
		if status != camera.AcquireOK {
			log.Printf("acquire returned status %s", status)
			continue
		}
		if err := box.Publish(ctx, frame); err != nil {
			return
		}
	}
}

// consumeLoop waits for each Publish on box, runs the latest frame
// through p (frames superseded while a run is in progress are skipped),
// and records the result if rec is enabled, until ctx is done.
func consumeLoop(ctx context.Context, box *mailbox.Mailbox, p *aspect.Pipeline, rec *fitsrec.Recorder) {
	for {
		if err := box.Wait(ctx); err != nil {
			return
		}
		frame, ok := box.Take()
		if !ok {
			continue
		}
		p.LoadFrame(frame)
		state := p.Run()
		if rec.Enabled {
			if err := rec.WriteFrame(p.Frame(), fitsrec.DiagnosticCards(p)); err != nil {
				log.Printf("recording frame failed: %v", err)
			}
		}
		if state != aspect.NoError {
			log.Printf("aspect run finished with state %s", state)
		}
	}
}

func run() {
	cfg := config{}
	if err := k.Unmarshal("", &cfg); err != nil {
		log.Fatal(err)
	}

	src := buildSource(cfg)
	box := mailbox.New(rate.Limit(cfg.PollHz), 1)
	p := aspect.NewPipeline(cfg.Aspect)

	rec := &fitsrec.Recorder{
		Root:    cfg.Recorder.Root,
		Prefix:  cfg.Recorder.Prefix,
		Enabled: cfg.Recorder.Enabled,
	}
	rec.Incr()
	recWrapper := fitsrec.NewHTTPWrapper(rec)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pollLoop(ctx, src, box)
	go consumeLoop(ctx, box, p, rec)

	httpPipeline := asphttp.NewHTTPPipeline(p)

	// A locked server still reports its current outputs but refuses to
	// accept a new frame or a parameter change, so an operator can
	// freeze the pipeline's state for inspection mid-incident without
	// stopping the process.
	lock := locker.New()
	lock.DoNotProtect = []string{"lock", "state", "pixel-", "fiducial-ids", "mapping", "screen-"}

	mux := chi.NewRouter()
	mux.Use(lock.Check)
	httpPipeline.BindRoutes(mux)
	recWrapper.BindRoutes(mux, p)
	locker.BindRoutes(mux, lock)

	root := chi.NewRouter()
	root.Mount(cfg.Root, mux)

	log.Println("now listening for requests at", cfg.Addr+cfg.Root)
	log.Fatal(http.ListenAndServe(cfg.Addr, root))
}

func main() {
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	setupconfig()
	cmd := strings.ToLower(args[1])
	switch cmd {
	case "help":
		help()
	case "mkconf":
		mkconf()
	case "conf":
		printconf()
	case "run":
		run()
	case "version":
		pversion()
	default:
		log.Fatal("unknown command")
	}
}
