package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/fader-sensor/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"pct": func(v float32) string {
		return fmt.Sprintf("%.1f%%", v*100)
	},
	"db": func(v float32) string {
		return fmt.Sprintf("%.1f dB", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Fader Sensor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.bar { background: #eee; height: 14px; width: 100%; }
.bar > div { background: #3a7; height: 14px; }
.pending { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Fader Sensor</h1>

<h2>Volume</h2>
<table>
<tr><th>Level</th><td><div class="bar"><div style="width: {{pct .Volume}}"></div></div></td></tr>
<tr><th>Value</th><td>{{printf "%.3f" .Volume}} ({{pct .Volume}})</td></tr>
<tr><th>Gain</th><td>{{db .DB}}</td></tr>
<tr><th>Raw count</th><td>{{.Raw}}</td></tr>
<tr><th>Position</th><td>{{printf "%.3f" .Linear}}</td></tr>
<tr><th>Ready</th><td>{{if .Ready}}yes{{else}}<span class="pending">waiting for first sample</span>{{end}}</td></tr>
{{if .Ready}}<tr><th>Last sample</th><td>{{.LastSample.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>{{end}}
</table>

<h2>Connectivity</h2>
<table>
<tr><th>Push</th><td>{{if .Config.Push}}enabled{{else}}disabled{{end}}</td></tr>
{{if .Config.Push}}<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Topic</th><td>{{.Config.Topic}}</td></tr>
<tr><th>Channel</th><td>{{.Config.Channel}}</td></tr>{{end}}
</table>

<h2>Counts</h2>
<table>
<tr><th>Cycles</th><td>{{.Counts.Cycles}}</td></tr>
<tr><th>Errors</th><td>{{.Counts.Errors}}</td></tr>
<tr><th>Published</th><td>{{.Counts.Published}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Interval</th><td>{{.Config.IntervalMs}}ms</td></tr>
<tr><th>Settle</th><td>{{.Config.SettleMs}}ms</td></tr>
<tr><th>Range</th><td>{{.Config.RangeMin}} – {{.Config.RangeMax}}</td></tr>
<tr><th>Curve</th><td>{{.Config.Curve}}</td></tr>
<tr><th>Slew</th><td>{{if .Config.RateLimit}}up {{.Config.RateUp}}/s, down {{.Config.RateDown}}/s{{else}}disabled{{end}}</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> · <a href="/potentiometer">raw</a> · <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() and Ready() methods but the template wants
	// plain fields.
	data := struct {
		status.Snapshot
		Uptime time.Duration
		Ready  bool
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Ready:    snap.Ready(),
	}
	indexTmpl.Execute(w, data)
}
