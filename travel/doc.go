// Package travel stores wayfarer's users and the trips they log.
package travel
