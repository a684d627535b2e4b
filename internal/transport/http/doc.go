// Package http contains the HTTP handlers of the analysis API. Handlers
// stay thin: they parse and validate the request, delegate to the analysis
// service and render the result, with every failure reported as an RFC 7807
// problem response.
package http
