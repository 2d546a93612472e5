package render

// The fragment is what the page swaps in on every update; the page wraps
// it with the widget frame and the bootstrap script.
const fragmentTemplate = `{{define "fragment"}}<div id="fragment" data-generation="{{.Generation}}"{{if .FetchedAtMillis}} data-fetched-at="{{.FetchedAtMillis}}"{{end}}>
<div class="status status-{{.StatusClass}}" role="status"><span class="status-text">{{.Status}}</span>{{if .FetchedAtMillis}} <span class="ago" data-fetched-at="{{.FetchedAtMillis}}"></span>{{end}}</div>
{{if .Columns}}<p class="summary">{{.Summary}}</p>
<table>
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>{{else}}<p class="empty">{{.Empty}}</p>{{end}}
</div>{{end}}`

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font: 14px/1.4 system-ui, sans-serif; margin: 0; color: #1f2328; background: #f6f8fa; }
header { display: flex; align-items: baseline; gap: 1rem; padding: .75rem 1.25rem; background: #fff; border-bottom: 1px solid #d0d7de; }
header h1 { font-size: 1.1rem; margin: 0; }
header .generation { color: #656d76; font-size: .85rem; }
main { padding: 1rem 1.25rem; }
.status { padding: .5rem .75rem; border-radius: 6px; margin-bottom: .75rem; }
.status-ok { background: #dafbe1; }
.status-stale { background: #fff8c5; border: 1px solid #d4a72c; }
.status-pending { background: #ddf4ff; }
.ago { color: #656d76; }
.summary { color: #656d76; margin: 0 0 .5rem; }
table { border-collapse: collapse; width: 100%; background: #fff; }
th, td { text-align: left; padding: .35rem .6rem; border-bottom: 1px solid #d0d7de; vertical-align: top; }
th { background: #f6f8fa; position: sticky; top: 0; }
.empty { color: #656d76; }
.widget { padding: 0 1.25rem 1.25rem; }
.widget iframe { width: 100%; min-height: 320px; border: 1px solid #d0d7de; border-radius: 6px; background: #fff; }
</style>
</head>
<body data-generation="{{.Generation}}" data-poll-ms="{{.PollMillis}}">
<header><h1>{{.Title}}</h1><span class="generation">generation <span id="generation">{{.Generation}}</span></span></header>
<main id="board">{{template "fragment" .}}</main>
{{if .Widget}}<section class="widget"><iframe id="widget" title="widget" sandbox="allow-scripts" srcdoc="{{.Widget}}"></iframe></section>
{{end}}<script>
(function () {
  var board = document.getElementById("board");
  var genLabel = document.getElementById("generation");
  var widget = document.getElementById("widget");
  var generation = Number(document.body.dataset.generation);
  var pollMs = Number(document.body.dataset.pollMs) || 10000;
  var pollTimer = null;

  function ago() {
    var spans = board.querySelectorAll(".ago[data-fetched-at]");
    for (var i = 0; i < spans.length; i++) {
      var secs = Math.max(0, Math.round((Date.now() - Number(spans[i].dataset.fetchedAt)) / 1000));
      spans[i].textContent = "(" + secs + "s ago)";
    }
  }

  function postSnapshot() {
    if (!widget || !widget.contentWindow) return;
    fetch("/api/snapshot", { cache: "no-store" })
      .then(function (r) { return r.json(); })
      .then(function (s) {
        widget.contentWindow.postMessage({ type: "snapshot", rows: s.rows, columns: s.columns, stale: s.stale }, "*");
      })
      .catch(function () {});
  }

  function refresh(next) {
    if (next !== undefined && next <= generation) return;
    fetch("/fragment", { cache: "no-store" })
      .then(function (r) { return r.text(); })
      .then(function (html) {
        board.innerHTML = html;
        var frag = document.getElementById("fragment");
        if (frag) {
          var gen = Number(frag.dataset.generation);
          if (gen !== generation) {
            generation = gen;
            genLabel.textContent = String(gen);
            postSnapshot();
          }
        }
        ago();
      })
      .catch(function () {});
  }

  function startPolling() {
    if (!pollTimer) pollTimer = setInterval(function () { refresh(); }, pollMs);
  }

  function stopPolling() {
    if (pollTimer) { clearInterval(pollTimer); pollTimer = null; }
  }

  function connect() {
    var socket;
    try {
      socket = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
    } catch (e) {
      startPolling();
      return;
    }
    socket.onopen = function () { stopPolling(); refresh(); };
    socket.onmessage = function (m) {
      var ev = JSON.parse(m.data);
      if (ev.type === "updated") refresh(ev.generation); else ago();
    };
    socket.onclose = function () {
      startPolling();
      setTimeout(connect, pollMs);
    };
  }

  if (widget) widget.addEventListener("load", postSnapshot);
  setInterval(ago, 1000);
  ago();
  connect();
})();
</script>
</body>
</html>
`
