package connectivity

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Prober polls a URL and feeds the result into a Monitor. Any response below 500
// counts as reachable.
type Prober struct {
	monitor  *Monitor
	client   *http.Client
	url      string
	interval time.Duration
	logger   *slog.Logger
}

func NewProber(monitor *Monitor, client *http.Client, url string, interval time.Duration, logger *slog.Logger) *Prober {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{monitor: monitor, client: client, url: url, interval: interval, logger: logger}
}

// Probe checks the URL once and updates the monitor.
func (p *Prober) Probe(ctx context.Context) bool {
	reachable := p.reachable(ctx)
	if p.monitor.Set(reachable) {
		p.logger.Info("Connectivity changed", slog.Bool("connected", reachable), slog.String("probe_url", p.url))
	}
	return reachable
}

// Run checks the URL every interval until ctx is done. The first check happens
// one interval in, so seed the monitor with a single synchronous check first.
func (p *Prober) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Probe(ctx)
		}
	}
}

func (p *Prober) reachable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.logger.Error("Invalid connectivity probe URL", slog.String("probe_url", p.url), slog.String("error", err.Error()))
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("Connectivity probe failed", slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}
