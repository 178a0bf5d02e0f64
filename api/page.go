package api

import (
	"html/template"
	"net/http"
)

type pageData struct {
	DownloadName string
}

var pageTmpl = template.Must(template.New("index").Parse(pageHTML))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := pageTmpl.Execute(w, pageData{DownloadName: s.DownloadName}); err != nil {
		s.Log.Error("render index page", "error", err)
	}
}

const pageHTML = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Générateur de QR code</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0a0a0a;
    color: #e0e0e0;
    display: flex;
    justify-content: center;
    align-items: center;
    min-height: 100vh;
  }
  .card {
    background: #1a1a1a;
    border: 1px solid #333;
    border-radius: 16px;
    padding: 48px;
    text-align: center;
    max-width: 460px;
    width: 100%;
  }
  h1 { font-size: 20px; font-weight: 600; margin-bottom: 8px; }
  .subtitle { color: #888; font-size: 14px; margin-bottom: 24px; }
  form { display: flex; gap: 8px; margin-bottom: 24px; }
  input[type=url] {
    flex: 1;
    padding: 10px 12px;
    border-radius: 8px;
    border: 1px solid #333;
    background: #0a0a0a;
    color: #e0e0e0;
  }
  button {
    padding: 10px 16px;
    border-radius: 8px;
    border: 0;
    background: #0f4c81;
    color: #fff;
    font-weight: 600;
    cursor: pointer;
  }
  #preview {
    width: 280px; height: 280px;
    margin: 0 auto 16px;
    display: flex;
    align-items: center;
    justify-content: center;
    background: #fff;
    border-radius: 12px;
  }
  #preview img { width: 260px; height: 260px; }
  #error { color: #f87171; font-size: 14px; min-height: 20px; }
  #download { color: #4ade80; font-size: 14px; display: none; }
</style>
</head>
<body>
<div class="card">
  <h1>QR code personnalisé</h1>
  <p class="subtitle">Saisissez l’URL à encoder</p>
  <form id="qr-form">
    <input type="url" name="url" placeholder="https://exemple.com" required>
    <button type="submit">Générer</button>
  </form>
  <div id="preview"></div>
  <div id="error"></div>
  <a id="download" download="{{.DownloadName}}">Télécharger le PNG</a>
</div>
<script>
(function() {
  var form = document.getElementById('qr-form');
  var preview = document.getElementById('preview');
  var errorEl = document.getElementById('error');
  var download = document.getElementById('download');

  function clearChildren(el) {
    while (el.firstChild) el.removeChild(el.firstChild);
  }

  form.addEventListener('submit', function(ev) {
    ev.preventDefault();
    errorEl.textContent = '';
    fetch('/colorize', { method: 'POST', body: new URLSearchParams(new FormData(form)) })
      .then(function(r) { return r.json(); })
      .then(function(data) {
        clearChildren(preview);
        if (data.error) {
          download.style.display = 'none';
          errorEl.textContent = data.error;
          return;
        }
        var src = 'data:image/png;base64,' + data.png;
        var img = document.createElement('img');
        img.setAttribute('alt', 'QR code');
        img.setAttribute('src', src);
        preview.appendChild(img);
        download.setAttribute('href', src);
        download.setAttribute('download', data.filename);
        download.style.display = 'inline';
      })
      .catch(function() {
        errorEl.textContent = 'Erreur de connexion, réessayez.';
      });
  });
})();
</script>
</body>
</html>`
