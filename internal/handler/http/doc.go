// Package http is the REST transport of the auth service.
//
// It wires chi routes for sign-in, token refresh, sign-out and the admin user
// endpoints. Tokens travel in httpOnly cookies, with a Bearer header accepted
// for the access token. Middleware adds trace ids, access logs, Prometheus
// metrics, gzip and per-IP rate limiting before a request reaches the
// service layer.
package http
