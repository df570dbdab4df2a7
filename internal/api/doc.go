// Package api serves the stored shows, bands and venues as read-only JSON.
package api
