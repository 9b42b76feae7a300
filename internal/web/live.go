package web

import (
	"fmt"

	"github.com/idilsaglam/todowidget/internal/dom"
)

// liveScript swaps the mount's content for every render frame pushed over
// /ws, so other tabs follow along. Plain form posts keep working without it.
const liveScript = `(function () {
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(scheme + location.host + "/ws");
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type === "render") {
      document.getElementById("app").innerHTML = msg.html;
    }
  };
})();`

// AttachLiveScript appends the live-update script to the document body,
// next to the mount node.
func AttachLiveScript(doc *dom.Document) error {
	body := doc.Body()
	if body == nil {
		return fmt.Errorf("attach live script: document has no body")
	}
	script, err := doc.CreateElement("script", liveScript)
	if err != nil {
		return fmt.Errorf("attach live script: %w", err)
	}
	dom.RenderElement(script, body)
	return nil
}
