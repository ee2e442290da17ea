package health

import (
	"bytes"
	"fmt"
	"html/template"
)

type dashboardDep struct {
	Name string
	OK   bool
	Ping string
}

type dashboardView struct {
	Service string
	Healthy bool
	Result  CollectResult
	Deps    []dashboardDep
	LastReq string
	AvgMs   string
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>HomeScout · API Status</title>
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <style>
    :root { --brand: #1F6FEB; --ink: #0F172A; --muted: #64748B; --bad: #DC2626; --bg: #F8FAFC; }
    body { background: var(--bg); color: var(--ink); font-family: system-ui, sans-serif; margin: 0; display: flex; justify-content: center; padding: 48px 16px; }
    .wrap { width: 100%; max-width: 960px; }
    h1 { font-size: 44px; margin: 0 0 8px; letter-spacing: -1px; color: {{if .Healthy}}var(--brand){{else}}var(--bad){{end}}; }
    .sub { color: var(--muted); font-weight: 600; margin-bottom: 28px; }
    .card { background: #fff; border-radius: 20px; box-shadow: 0 20px 60px -20px rgba(15,23,42,.15); display: grid; grid-template-columns: repeat(3, 1fr); overflow: hidden; }
    .col { padding: 32px; border-right: 1px solid #EEF2F7; }
    .col:last-child { border-right: none; }
    .label { text-transform: uppercase; font-size: 11px; font-weight: 800; letter-spacing: 2px; color: #94A3B8; margin-bottom: 18px; }
    .big { font-size: 36px; font-weight: 800; margin-bottom: 10px; }
    .row { display: flex; justify-content: space-between; padding: 7px 0; font-size: 14px; font-weight: 600; border-bottom: 1px solid #F1F5F9; }
    .row:last-child { border-bottom: none; }
    .ok { color: var(--brand); } .err { color: var(--bad); }
    .foot { margin-top: 18px; font-family: monospace; color: var(--muted); display: flex; justify-content: space-between; }
    a { color: var(--brand); font-weight: 700; }
    @media (max-width: 800px) { .card { grid-template-columns: 1fr; } .col { border-right: none; } }
  </style>
</head>
<body>
  <div class="wrap">
    <h1>{{if .Healthy}}All Systems Operational{{else}}System Issues Detected{{end}}</h1>
    <div class="sub">{{.Service}} · {{.Result.Runtime.GoVersion}} · {{.Result.Runtime.Platform}}</div>
    <div class="card">
      <div class="col">
        <div class="label">Traffic</div>
        <div class="big">{{.Result.Traffic.TotalRequests}}</div>
        <div class="row"><span>Successful</span><span class="ok">{{.Result.Traffic.SuccessCount}}</span></div>
        <div class="row"><span>Failed</span><span class="err">{{.Result.Traffic.FailedCount}}</span></div>
        <div class="row"><span>Success rate</span><span>{{.Result.Traffic.SuccessRate}}%</span></div>
        <div class="row"><span>Avg latency</span><span>{{.AvgMs}} ms</span></div>
      </div>
      <div class="col">
        <div class="label">Runtime</div>
        <div class="big">{{.Result.Runtime.UptimeSeconds}}s</div>
        <div class="row"><span>Heap in use</span><span>{{.Result.Runtime.Memory.HeapUsedMB}} MB</span></div>
        <div class="row"><span>Allocated</span><span>{{.Result.Runtime.Memory.AllocMB}} MB</span></div>
        <div class="row"><span>Goroutines</span><span>{{.Result.Runtime.Goroutines}}</span></div>
      </div>
      <div class="col">
        <div class="label">Dependencies</div>
        {{range .Deps}}<div class="row"><span>{{.Name}}</span><span class="{{if .OK}}ok{{else}}err{{end}}">{{.Ping}}</span></div>
        {{end}}
      </div>
    </div>
    <div class="foot"><span>Last request: {{.LastReq}}</span><a href="/health/errors">Error log</a></div>
  </div>
  <script>setTimeout(() => location.reload(), 30000);</script>
</body>
</html>
`))

// RenderDashboardHTML returns the status page served at GET /.
func RenderDashboardHTML(health CollectResult) string {
	view := dashboardView{
		Service: ServiceName,
		Healthy: health.Status == "ok",
		Result:  health,
		LastReq: "-",
		AvgMs:   health.Traffic.AvgResponseTime,
	}
	for _, name := range health.DependencyNames() {
		dep := health.Dependencies[name]
		d := dashboardDep{Name: name, OK: dep.Status == "connected" || dep.Status == "reachable", Ping: dep.Status}
		if dep.PingMs != nil {
			d.Ping = fmt.Sprintf("%d ms", *dep.PingMs)
		}
		view.Deps = append(view.Deps, d)
	}
	if m, ok := health.Traffic.LastRequest.(map[string]interface{}); ok {
		view.LastReq = fmt.Sprintf("%v %v", m["method"], m["path"])
	}
	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, view); err != nil {
		return "<h1>" + template.HTMLEscapeString(err.Error()) + "</h1>"
	}
	return buf.String()
}
