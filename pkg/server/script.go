package server

// clientScript mirrors the canvas into the page. It rebuilds the root from
// the init tree, applies ops in seq order, and forwards DOM events for
// handles with listeners.
const clientScript = `(function () {
  var root = document.getElementById("root");
  var nodes = new Map();
  var listening = new Map();
  var delegated = new Set();
  var seq = 0;
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + location.host + "/ws");

  function build(n) {
    var el = n.kind === "Text" ? document.createTextNode(n.text || "") : document.createElement(n.kind);
    adopt(n, el);
    return el;
  }

  function adopt(n, el) {
    nodes.set(n.id, el);
    for (var k in n.attrs || {}) el.setAttribute(k, n.attrs[k]);
    (n.events || []).forEach(function (e) { listen(n.id, e); });
    (n.children || []).forEach(function (c) { el.appendChild(build(c)); });
  }

  function listen(id, name) {
    var set = listening.get(id);
    if (!set) { set = new Set(); listening.set(id, set); }
    set.add(name);
    if (delegated.has(name)) return;
    delegated.add(name);
    root.addEventListener(name, function (ev) { forward(name, ev); }, true);
  }

  function idOf(el) {
    for (var [id, node] of nodes) if (node === el) return id;
    return 0;
  }

  function forward(name, ev) {
    for (var el = ev.target; el && el !== root; el = el.parentNode) {
      var id = idOf(el);
      var set = listening.get(id);
      if (!set || !set.has(name)) continue;
      var data = {};
      if ("value" in el) data.value = el.value;
      if (name === "submit") ev.preventDefault();
      ws.send(JSON.stringify({ type: "event", id: id, event: name, data: data }));
      return;
    }
  }

  function apply(op) {
    var el = nodes.get(op.id), parent = nodes.get(op.parent);
    switch (op.op) {
    case "createElement": nodes.set(op.id, document.createElement(op.name)); break;
    case "createText": nodes.set(op.id, document.createTextNode(op.value || "")); break;
    case "insert": parent.appendChild(el); break;
    case "remove": parent.removeChild(el); nodes.delete(op.id); listening.delete(op.id); break;
    case "replace":
      parent.replaceChild(el, nodes.get(op.ref));
      nodes.delete(op.ref); listening.delete(op.ref);
      break;
    case "setAttribute":
      el.setAttribute(op.name, op.value || "");
      if (op.name === "value") el.value = op.value || "";
      break;
    case "removeAttribute": el.removeAttribute(op.name); break;
    case "setText": el.nodeValue = op.value || ""; break;
    case "addListener": listen(op.id, op.name); break;
    case "removeListener": var s = listening.get(op.id); if (s) s.delete(op.name); break;
    }
  }

  ws.onmessage = function (m) {
    var msg = JSON.parse(m.data);
    if (msg.type === "init") {
      nodes.clear(); listening.clear();
      root.textContent = "";
      adopt(msg.tree, root);
      seq = msg.seq || 0;
    } else if (msg.type === "op" && msg.op.seq > seq) {
      seq = msg.op.seq;
      apply(msg.op);
    }
  };
})();`
