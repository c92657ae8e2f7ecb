package agent

import "errors"

// errNoActiveElement is returned by /element/active when the document has
// no focused element (or focus sits on body/documentElement, which spec.md
// §4.B treats as "no active element").
var errNoActiveElement = errors.New("no active element")

// errNoSuchAlert is returned by the alert endpoint group when there is no
// pending dialog in the bridge's queue.
var errNoSuchAlert = errors.New("no such alert")

// errNoSuchCookie names the missing-cookie condition. No handler returns it:
// /cookie/get reports a missing cookie through the in-page NoSuchCookie
// error, and /cookie/delete of an absent name succeeds.
var errNoSuchCookie = errors.New("no such cookie")

// errMissingFrameElement and errUnknownFrameKind guard /frame/switch's
// polymorphic body against a malformed kind/element combination.
var errMissingFrameElement = errors.New("frame switch: kind \"element\" requires an element")
var errUnknownFrameKind = errors.New("frame switch: unknown kind")
