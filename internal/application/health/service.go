package health

import (
	"context"
	"encoding/json"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"time"

	"homescout-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const ServiceName = "homescout-api"

// DBPinger is optional for health check. If nil, database is reported as disconnected.
type DBPinger interface {
	Ping() error
}

// ExternalPinger is a third-party dependency that is reported but does not
// affect the overall status.
type ExternalPinger interface {
	Ping(ctx context.Context) error
}

type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	Goroutines    int        `json:"goroutines"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
}

type MemoryInfo struct {
	AllocMB    int `json:"allocMb"`
	HeapUsedMB int `json:"heapUsedMb"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime string      `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

// Collector gathers health data from the database, Redis and external services.
type Collector struct {
	DB       DBPinger
	Redis    *redis.Client
	External map[string]ExternalPinger
	Timeout  time.Duration // per external ping, defaults to 3s
}

func timed(ping func() error) (*int64, error) {
	start := time.Now()
	if err := ping(); err != nil {
		return nil, err
	}
	ms := time.Since(start).Milliseconds()
	return &ms, nil
}

// Collect builds the health report. Status is "ok" only when the database and
// Redis both answer.
func (c *Collector) Collect(ctx context.Context) CollectResult {
	result := CollectResult{Dependencies: make(map[string]DepStatus)}

	dbStatus := DepStatus{Status: "disconnected"}
	if c.DB != nil {
		if ms, err := timed(c.DB.Ping); err == nil {
			dbStatus = DepStatus{Status: "connected", PingMs: ms}
		} else {
			dbStatus.Status = "error"
		}
	}
	result.Dependencies["database"] = dbStatus

	redisStatus := DepStatus{Status: "disconnected"}
	startMs := time.Now().UnixMilli()
	result.Traffic = TrafficInfo{SuccessRate: "100", AvgResponseTime: "0"}
	if c.Redis != nil {
		if ms, err := timed(func() error { return c.Redis.Ping(ctx).Err() }); err == nil {
			redisStatus = DepStatus{Status: "connected", PingMs: ms}
			startMs = c.traffic(ctx, &result.Traffic, startMs)
		} else {
			redisStatus.Status = "error"
		}
	}
	result.Dependencies["redis"] = redisStatus

	for name, dep := range c.pingExternal(ctx) {
		result.Dependencies[name] = dep
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	result.Runtime = RuntimeInfo{
		UptimeSeconds: max((time.Now().UnixMilli()-startMs)/1000, 0),
		Memory:        MemoryInfo{AllocMB: int(m.Alloc / 1024 / 1024), HeapUsedMB: int(m.HeapInuse / 1024 / 1024)},
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}

	result.Status = "issue"
	if dbStatus.Status == "connected" && redisStatus.Status == "connected" {
		result.Status = "ok"
	}
	return result
}

// traffic reads the HealthMarker counters and returns the recorded start time.
func (c *Collector) traffic(ctx context.Context, t *TrafficInfo, startMs int64) int64 {
	pipe := c.Redis.Pipeline()
	total := pipe.Get(ctx, middleware.KeyReqTotal)
	failed := pipe.Get(ctx, middleware.KeyReqErrors)
	timeSum := pipe.Get(ctx, middleware.KeyResTime)
	count := pipe.Get(ctx, middleware.KeyResCount)
	started := pipe.Get(ctx, middleware.KeyStartTime)
	last := pipe.Get(ctx, middleware.KeyLastReq)
	_, _ = pipe.Exec(ctx)

	if v, err := strconv.ParseInt(started.Val(), 10, 64); err == nil {
		startMs = v
	} else {
		c.Redis.Set(ctx, middleware.KeyStartTime, startMs, 0)
	}
	t.TotalRequests, _ = strconv.Atoi(total.Val())
	t.FailedCount, _ = strconv.Atoi(failed.Val())
	t.SuccessCount = t.TotalRequests - t.FailedCount
	if t.TotalRequests > 0 {
		t.SuccessRate = strconv.FormatFloat(float64(t.SuccessCount)/float64(t.TotalRequests)*100, 'f', 1, 64)
	}
	sum, _ := strconv.ParseFloat(timeSum.Val(), 64)
	if n, _ := strconv.Atoi(count.Val()); n > 0 {
		t.AvgResponseTime = strconv.FormatFloat(sum/float64(n), 'f', 2, 64)
	}
	if s := last.Val(); s != "" {
		var lastReq map[string]interface{}
		if json.Unmarshal([]byte(s), &lastReq) == nil {
			t.LastRequest = lastReq
		}
	}
	return startMs
}

func (c *Collector) pingExternal(ctx context.Context) map[string]DepStatus {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[string]DepStatus, len(c.External))
	)
	for name, p := range c.External {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			dep := DepStatus{Status: "unreachable"}
			if ms, err := timed(func() error { return p.Ping(pctx) }); err == nil {
				dep = DepStatus{Status: "reachable", PingMs: ms}
			}
			mu.Lock()
			out[name] = dep
			mu.Unlock()
		}()
	}
	wg.Wait()
	return out
}

// DependencyNames returns the dependency keys in display order: database and
// redis first, then externals alphabetically.
func (r CollectResult) DependencyNames() []string {
	names := make([]string, 0, len(r.Dependencies))
	for name := range r.Dependencies {
		if name != "database" && name != "redis" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return append([]string{"database", "redis"}, names...)
}
