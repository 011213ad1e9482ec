// Package http implements the HTTP handlers of the audit analysis service.
// Handlers stay thin: they parse the request, call a service and render the
// result as JSON or as an RFC 7807 problem.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Analysis Engine
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Uploads
//
// Workbook endpoints take a multipart form with the workbook in the "file"
// field. Bodies larger than the configured upload limit are rejected with
// 413 before the workbook is opened.
//
// # Errors
//
// Service sentinels are matched with errors.Is and mapped onto the predefined
// API errors in internal/errors. Anything unrecognised becomes a 500 problem;
// cancelled or timed out requests become 504.
package http
