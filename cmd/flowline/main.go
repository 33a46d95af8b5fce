// Package main is the entry point for the flowline dispatch host.
//
// The host reads one JSON object per stdin line, dispatches it through the
// runtime, and prints the resolved response as JSON:
//
//	{"event":"ping","payload":{"msg":"hi"}}
//
// By default items are posted to the background loop; -sync resolves each
// item on the reading goroutine instead.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/tidwall/gjson"

	"github.com/dshills/flowline/internal/config"
	"github.com/dshills/flowline/internal/dispatch"
	"github.com/dshills/flowline/internal/event"
	"github.com/dshills/flowline/internal/log"
	"github.com/dshills/flowline/internal/module"
	"github.com/dshills/flowline/internal/runtime"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	ConfigPath string
	LogLevel   string
	Sync       bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	log.Setup(cfg.Log.Level, cfg.Log.Format)

	rt, err := runtime.New[string](cfg, coreModule())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer func() { _ = rt.Shutdown() }()

	if err := rt.Start(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// SIGINT/SIGTERM stop intake; the deferred Shutdown drains the queue.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-signals:
			_ = os.Stdin.Close()
		case <-done:
		}
	}()

	serve(rt, opts.Sync)
	close(done)
	return 0
}

// serve reads JSON lines from stdin and dispatches them until EOF.
func serve(rt *runtime.Runtime[string], syncMode bool) {
	printer := newPrinter()
	scanner := bufio.NewScanner(os.Stdin)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		eventKey := gjson.Get(line, "event").String()
		if eventKey == "" {
			printer.printError("", fmt.Errorf("missing event key in %q", line))
			continue
		}

		req := event.NewRequest(eventKey)
		if id := gjson.Get(line, "id").String(); id != "" {
			req = req.WithID(id)
		}
		if payload := gjson.Get(line, "payload"); payload.Exists() {
			req = req.WithPayload(event.Payload(payload.Raw))
		}

		item := dispatch.NewItem(req.ID, req)
		if syncMode {
			printer.print(req.ID, rt.Dispatch(context.Background(), item))
			continue
		}
		rt.Post(item.WithCallback(printer.print))
	}
}

// printer serializes response output; async callbacks fire from
// concurrent dispatch tasks.
type printer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func newPrinter() *printer {
	return &printer{enc: json.NewEncoder(os.Stdout)}
}

type output struct {
	ID      string          `json:"id"`
	Status  string          `json:"status"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (p *printer) print(id string, resp event.Response) {
	out := output{ID: id, Status: resp.Status.String()}
	if !resp.Payload.IsEmpty() {
		out.Payload = json.RawMessage(resp.Payload)
	}
	if resp.Err != nil {
		out.Error = resp.Err.Error()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.enc.Encode(out)
}

func (p *printer) printError(id string, err error) {
	p.print(id, event.ErrorResponse(err))
}

// coreModule provides the built-in handlers every host carries.
func coreModule() *module.Module {
	return module.New("core").
		HandleFunc("ping",
			func(ctx context.Context, req *event.Request) (event.Response, error) {
				return event.SuccessWithPayload(req.Payload), nil
			}).
		HandleFunc("core.version",
			func(ctx context.Context, req *event.Request) (event.Response, error) {
				p, err := event.Payload(`{}`).Set("version", version)
				if err != nil {
					return event.Response{}, err
				}
				return event.SuccessWithPayload(p), nil
			})
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "flowline.toml", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "flowline.toml", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	flag.BoolVar(&opts.Sync, "sync", false, "Resolve each item synchronously")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Flowline - in-process event dispatch host\n\n")
		fmt.Fprintf(os.Stderr, "Usage: flowline [options]\n\n")
		fmt.Fprintf(os.Stderr, "Reads one JSON object per stdin line and prints responses.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Flowline %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		os.Exit(0)
	}

	return opts
}
