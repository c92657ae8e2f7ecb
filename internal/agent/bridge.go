package agent

import "fmt"

// bridgeScript is injected into every web view on creation (HostView.Inject).
// It installs the non-configurable `B` namespace the agent's eval wrapper
// and handlers rely on: resolve/findElement/findElementByXPath/
// findElementInShadow/getActiveElement, plus the cache/__shadowCache/cookies
// stores and alert/confirm/prompt overrides used by the alert endpoint
// group. Shape follows spec.md §4.A; installation style (single guarded
// IIFE, non-writable globals via Object.defineProperty) mirrors the
// teacher's page-context hook in session_manager.go's startEventStream,
// which likewise self-guards with a `w.__browsernerdHooked` flag before
// wiring document-level listeners.
const bridgeScript = `
(function () {
  if (window.B && window.B.__installed) return;

  var resolveBinding = window.__wdResolveBinding;

  var cache = Object.create(null);
  var shadowCache = Object.create(null);
  var cookies = Object.create(null);
  var dialogQueue = [];
  var activeCounter = 0;

  function wrapError(v) {
    if (v instanceof Error) {
      return { error: v.name || 'Error', message: v.message || String(v), stacktrace: v.stack || '' };
    }
    if (v && typeof v === 'object' && v.__isError) {
      return { error: v.name || 'Error', message: v.message || '', stacktrace: v.stacktrace || '' };
    }
    return v;
  }

  function resolve(id, result) {
    var payload = wrapError(result);
    if (typeof resolveBinding === 'function') {
      resolveBinding(JSON.stringify({ id: id, result: payload }));
    }
  }

  function cacheKey(selector, index) {
    return selector + ':' + index;
  }

  function findElement(doc, selector, index) {
    var key = cacheKey(selector, index);
    var cached = cache[key];
    if (cached && cached.isConnected) {
      return cached;
    }
    if (cached) delete cache[key];

    var nodes = doc.querySelectorAll(selector);
    var node = nodes[index] || null;
    if (node) cache[key] = node;
    return node;
  }

  function findElementByXPath(doc, xpath, index) {
    var root = doc.ownerDocument || doc;
    var snapshot = root.evaluate(xpath, doc, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
    return snapshot.snapshotItem(index) || null;
  }

  function findElementInShadow(id) {
    var node = shadowCache[id];
    if (node && node.isConnected) return node;
    if (node) delete shadowCache[id];
    return null;
  }

  var shadowCounter = 0;

  function registerShadow(root) {
    var id = 'sh-' + (shadowCounter++);
    shadowCache[id] = root;
    return id;
  }

  function getActiveElement(doc) {
    var el = doc.activeElement;
    if (!el || el === doc.body || el === doc.documentElement) return null;
    var id = 'wd-' + (activeCounter++);
    el.setAttribute('data-wd-id', id);
    return { selector: '[data-wd-id="' + id + '"]', index: 0 };
  }

  Object.defineProperty(window, 'B', {
    value: {
      __installed: true,
      resolve: resolve,
      findElement: findElement,
      findElementByXPath: findElementByXPath,
      findElementInShadow: findElementInShadow,
      registerShadow: registerShadow,
      getActiveElement: getActiveElement,
      cache: cache,
      __shadowCache: shadowCache,
      cookies: cookies,
      __dialogs: dialogQueue,
    },
    writable: false,
    configurable: false,
  });

  var nativeAlert = window.alert;
  var nativeConfirm = window.confirm;
  var nativePrompt = window.prompt;

  window.alert = function (text) {
    dialogQueue.push({ type: 'alert', text: String(text == null ? '' : text) });
  };
  window.confirm = function (text) {
    dialogQueue.push({ type: 'confirm', text: String(text == null ? '' : text) });
    return true;
  };
  window.prompt = function (text, def) {
    dialogQueue.push({ type: 'prompt', text: String(text == null ? '' : text), default: def || '' });
    return def || '';
  };

  window.__wdNativeDialogs = { alert: nativeAlert, confirm: nativeConfirm, prompt: nativePrompt };
})();
`

// buildSyncWrapper wraps a caller-supplied script body for the synchronous
// eval variant: an IIFE whose return value is handed to B.resolve(id, ...).
//
// script is spliced in as literal JS source — a real function body, not a
// string argument to the Function constructor — specifically so a quote
// character inside the caller's script (e.g. requireElementScript's
// new Error('element not found')) can never break out of an enclosing
// string literal and produce a syntax error. Naming the wrapper's
// parameters "document" and "arguments" shadows the outer document
// reference and the IIFE's own implicit arguments object with the
// frame-scoped document and the caller's JSON-decoded argument array,
// without needing Function's string-body indirection at all.
func buildSyncWrapper(id string, script string, argsJSON string, docExpr string) string {
	return fmt.Sprintf(`
(function () {
  try {
    var __doc = %s;
    var __args = %s;
    var __fn = function (document, arguments) { return (function(){ %s })(); };
    var __result = __fn(__doc, __args);
    window.B.resolve(%q, __result);
  } catch (e) {
    window.B.resolve(%q, e);
  }
})();
`, docExpr, argsJSON, script, id, id)
}

// buildCallbackWrapper wraps a caller-supplied script body for the callback
// eval variant (used by execute-async and screenshots): the user script
// itself must invoke the `done` callback (its final argument) to resolve.
// Same literal-source splicing as buildSyncWrapper, for the same reason.
func buildCallbackWrapper(id string, script string, argsJSON string, docExpr string) string {
	return fmt.Sprintf(`
(function () {
  try {
    var __doc = %s;
    var __args = %s;
    var __done = function (v) { window.B.resolve(%q, v); };
    __args.push(__done);
    var __fn = function (document, arguments, done) { %s };
    __fn(__doc, __args, __done);
  } catch (e) {
    window.B.resolve(%q, e);
  }
})();
`, docExpr, argsJSON, id, script, id)
}
