package routes

// Package routes wires the gin router for the land resolver service.
//
// Layout:
// - api.go: /v1 API routes plus health probes and middleware
// - web.go: index and docs pages
//
// Usage:
// routes.SetupAllRoutes(router, routes.Controllers{...})
