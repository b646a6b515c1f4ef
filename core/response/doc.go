// Package response builds handler.Response values: plain text, JSON and HTML
// template bodies, header and cookie decorators, and the HTTPError type used
// by the error handlers.
//
// Error handlers never render the message of an arbitrary error. Only
// HTTPError values carry client-visible text, which keeps driver and store
// failures out of response bodies.
package response
