package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"strings"
	"time"

	"github.com/sweeney/segment-clock/internal/status"
)

// formatUptime renders d as its largest non-zero units, e.g. "2d 3h" or "4m 10s".
func formatUptime(d time.Duration) string {
	secs := int64(d / time.Second)
	units := []struct {
		size   int64
		suffix string
	}{{86400, "d"}, {3600, "h"}, {60, "m"}, {1, "s"}}

	var parts []string
	for _, u := range units {
		if n := secs / u.size; n > 0 || (u.size == 1 && len(parts) == 0) {
			parts = append(parts, fmt.Sprintf("%d%s", n, u.suffix))
			secs -= n * u.size
		}
		if len(parts) == 2 {
			break
		}
	}
	return strings.Join(parts, " ")
}

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": formatUptime,
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"hex": func(b uint8) string {
		return fmt.Sprintf("0x%02X", b)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Segment Clock</title>
<style>
body { font-family: monospace; max-width: 36em; margin: 1.5em auto; padding: 0 1em; }
h1 { font-size: 1.3em; margin-bottom: 0.2em; }
table { border-collapse: collapse; width: 100%; margin: 0.5em 0 1.5em; }
td, th { text-align: left; padding: 3px 6px; border-bottom: 1px dotted #bbb; }
th { width: 35%; font-weight: normal; color: #555; }
.digits { font-size: 3em; letter-spacing: 0.15em; background: #111; color: #f33; padding: 0.2em 0.4em; white-space: pre; display: inline-block; }
.editing { color: orange; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Segment Clock</h1>

<p><span id="digits" class="digits">{{if .Running}}{{.Clock.Display}}{{else}}--:--{{end}}</span></p>

<h2>State</h2>
<table>
<tr><th>Time</th><td id="time">{{.Clock.Time}}</td></tr>
<tr><th>Mode</th><td id="mode"{{if .Clock.Mode.Editing}} class="editing"{{end}}>{{if .Running}}{{.Clock.Mode}}{{else}}UNKNOWN{{end}}</td></tr>
<tr><th>Mask</th><td>{{hex .Clock.Mask}}</td></tr>
<tr><th>Mode button</th><td>{{stateOrUnknown (printf "%s" (index .Clock.Buttons 0))}}</td></tr>
<tr><th>Increment button</th><td>{{stateOrUnknown (printf "%s" (index .Clock.Buttons 1))}}</td></tr>
<tr><th>Decrement button</th><td>{{stateOrUnknown (printf "%s" (index .Clock.Buttons 2))}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Mode changes</th><td>{{.Clock.Counts.ModeChanges}}</td></tr>
<tr><th>Increments</th><td>{{.Clock.Counts.Increments}}</td></tr>
<tr><th>Decrements</th><td>{{.Clock.Counts.Decrements}}</td></tr>
<tr><th>Hold repeats</th><td>{{.Clock.Counts.Repeats}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Variant</th><td>{{.Config.Variant}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Debounce</th><td>every {{.Config.DebounceTicks}} ticks, press {{.Config.PressSamples}}, hold {{.Config.HoldSamples}}</td></tr>
<tr><th>Blink / repeat</th><td>{{.Config.BlinkTicks}} / {{.Config.RepeatTicks}} ticks</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
<script>
(function() {
  var digits = document.getElementById("digits");
  var time = document.getElementById("time");
  var mode = document.getElementById("mode");

  function poll() {
    fetch("/index.json").then(function(r) { return r.json(); }).then(function(j) {
      digits.textContent = j.status.display;
      time.textContent = j.status.time;
      mode.textContent = j.status.mode;
      mode.className = j.status.mode.indexOf("EDIT_") === 0 ? "editing" : "";
    }).catch(function() {});
  }

  setInterval(poll, 250);
})();
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render index: %v", err)
	}
}
