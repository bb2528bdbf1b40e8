package preview

import (
	"html/template"
	"io"
)

// ShellData feeds the host page around the sandboxed frame.
type ShellData struct {
	ProjectID   string
	ProjectName string
	Frame       Frame
	Viewports   []Viewport
	SocketPath  string
}

// RenderShell writes the host page. The compiled document is embedded
// through the srcdoc attribute of an iframe sandboxed with allow-scripts
// only, so pages run scripts but cannot reach the host origin.
func RenderShell(w io.Writer, data ShellData) error {
	if data.Viewports == nil {
		data.Viewports = Viewports
	}
	return shellTemplate.Execute(w, data)
}

var shellTemplate = template.Must(template.New("shell").Funcs(template.FuncMap{
	"width": func(v Viewport) int { return v.Width() },
}).Parse(shellHTML))

const shellHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.ProjectName}} · preview</title>
<style>
  body { margin: 0; font-family: system-ui, sans-serif; background: #f1f3f5; }
  .bar { display: flex; gap: 8px; align-items: center; padding: 8px 12px; background: #fff; border-bottom: 1px solid #dee2e6; }
  .bar .name { font-weight: 600; margin-right: auto; }
  .bar button[aria-pressed="true"] { background: #212529; color: #fff; }
  .stage { display: flex; justify-content: center; padding: 16px; }
  iframe { border: 1px solid #ced4da; background: #fff; height: calc(100vh - 90px); max-width: 100%; }
  .empty { padding: 48px; color: #868e96; text-align: center; }
  .toasts { position: fixed; right: 16px; bottom: 16px; display: flex; flex-direction: column; gap: 8px; }
  .toast { padding: 10px 14px; border-radius: 6px; color: #fff; background: #495057; }
  .toast.success { background: #2b8a3e; }
  .toast.error { background: #c92a2a; }
</style>
</head>
<body>
<div class="bar">
  <span class="name">{{.ProjectName}}</span>
  <select id="page">
    {{- range .Frame.Pages}}
    <option value="{{.}}"{{if eq . $.Frame.Page}} selected{{end}}>{{.}}</option>
    {{- end}}
  </select>
  {{- range .Viewports}}
  <button type="button" data-viewport="{{.}}" aria-pressed="{{if eq . $.Frame.Viewport}}true{{else}}false{{end}}">{{.}} ({{width .}}px)</button>
  {{- end}}
</div>
<div class="stage">
  <div id="empty" class="empty"{{if not .Frame.Empty}} hidden{{end}}>Nothing to preview yet. Add an index.html to this project.</div>
  <iframe id="frame" sandbox="allow-scripts" title="preview" style="width: {{.Frame.Width}}px"{{if .Frame.Empty}} hidden{{end}} srcdoc="{{.Frame.HTML}}"></iframe>
</div>
<div id="toasts" class="toasts"></div>
<script>
(function () {
  var socketPath = {{.SocketPath}};
  var frame = document.getElementById('frame');
  var empty = document.getElementById('empty');
  var select = document.getElementById('page');
  var scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
  var socket = new WebSocket(scheme + location.host + socketPath);

  function send(msg) {
    if (socket.readyState === WebSocket.OPEN) socket.send(JSON.stringify(msg));
  }

  function show(doc) {
    frame.hidden = doc.empty;
    empty.hidden = !doc.empty;
    frame.style.width = doc.width + 'px';
    if (!doc.empty) frame.srcdoc = doc.html;
    select.innerHTML = '';
    (doc.pages || []).forEach(function (p) {
      var opt = document.createElement('option');
      opt.value = p;
      opt.textContent = p;
      opt.selected = p === doc.page;
      select.appendChild(opt);
    });
    document.querySelectorAll('[data-viewport]').forEach(function (b) {
      b.setAttribute('aria-pressed', String(b.dataset.viewport === doc.viewport));
    });
  }

  function toast(t) {
    var el = document.createElement('div');
    el.className = 'toast ' + t.level;
    el.textContent = t.title + (t.message ? ': ' + t.message : '');
    document.getElementById('toasts').appendChild(el);
    setTimeout(function () { el.remove(); }, 5000);
  }

  function onMessage(event) {
    if (event.source !== frame.contentWindow) return;
    var data = event.data;
    if (!data || data.type !== 'navigate' || typeof data.page !== 'string') return;
    send({ type: 'navigate', page: data.page });
  }

  window.addEventListener('message', onMessage);
  window.addEventListener('pagehide', function () {
    window.removeEventListener('message', onMessage);
    socket.close();
  }, { once: true });

  socket.onmessage = function (event) {
    var msg = JSON.parse(event.data);
    if (msg.type === 'document' || msg.type === 'reload') show(msg.frame);
    else if (msg.type === 'toast') toast(msg.toast);
    else if (msg.type === 'error') toast({ level: 'error', title: 'Preview', message: msg.error });
  };

  select.addEventListener('change', function () {
    send({ type: 'navigate', page: select.value });
  });
  document.querySelectorAll('[data-viewport]').forEach(function (b) {
    b.addEventListener('click', function () {
      send({ type: 'viewport', viewport: b.dataset.viewport });
    });
  });
})();
</script>
</body>
</html>
`
