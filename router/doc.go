// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires URL patterns to handlers using the standard
library's method-aware ServeMux. Every application route is wrapped in
request logging; CORS is applied once around the whole mux in main.
*/
package router
