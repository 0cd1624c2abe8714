/*
Package observability provides tools for monitoring the fomod engine.

It turns the engine's lifecycle hooks into Prometheus metrics and structured
log records, and lets several hook sets be attached to one engine at once.
*/
package observability
