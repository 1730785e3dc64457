// Package browser drives a Chromium tab through go-rod.
//
// Launch starts the browser with the automation fingerprints masked
// (AutomationControlled blink feature off, enable-automation switch
// removed, stealth.JS injected into every document, user agent
// overridden). A Session then exposes the handful of operations the
// platform flows need: navigate, wait for an element, click, type, read
// text or HTML, hover, screenshots. Every wait is bounded by
// browser.wait_timeout.
//
// Session.Region returns a harvest.Region backed by a live element.
// Scrolling and snapshots check that the element is still attached, so a
// container replaced by the page surfaces as errors.ErrRegionLost and the
// harvester can re-acquire it through Session.Locator.
//
// rod errors are mapped onto the errors package taxonomy: a selector that
// never matches is ErrElementNotFound, a node or execution context that
// disappeared mid-read is ErrStaleReference.
package browser
