// Package services implements the business logic layer of the SCOPE
// dashboard. It sits between the HTTP handlers and the domain packages,
// so that aggregation rules, forecast defaults and artifact access are
// centralized and testable.
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//	4. Domain-focused methods that encapsulate business rules
//
// The three services map to the dashboard surfaces: SalesService serves
// the historical and comparison tabs, ForecastService serves the forecast
// and what-if tabs plus the CSV export, and ModelService serves the
// feature importance tab and the model inventory.
package services
