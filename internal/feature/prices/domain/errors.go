// Package domain defines domain-level errors for the prices feature.
package domain

import "errors"

// Input validation errors. They are returned before any network or database access.
var (
	// ErrInvalidTicker indicates that the ticker is not 1-10 uppercase ASCII letters.
	ErrInvalidTicker = errors.New("invalid ticker")

	// ErrInvalidDate indicates that a date is not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidRange indicates that from_date is after to_date.
	ErrInvalidRange = errors.New("from date is after to date")

	// ErrInvalidMultiplier indicates that the multiplier is not a positive integer.
	ErrInvalidMultiplier = errors.New("multiplier must be a positive integer")

	// ErrInvalidTimespan indicates a timespan outside day/week/month/quarter/year.
	ErrInvalidTimespan = errors.New("invalid timespan")

	// ErrUnsupportedChartType indicates a chart type other than candle or line.
	ErrUnsupportedChartType = errors.New("unsupported chart type")
)

// Market data and pipeline outcomes.
var (
	// ErrNoData means the upstream answered but had no bars for the request
	// (unknown ticker, market holiday, empty range).
	ErrNoData = errors.New("no data for request")

	// ErrRateLimited means the upstream rejected the call with HTTP 429.
	ErrRateLimited = errors.New("upstream rate limit reached")

	// ErrUpstreamUnavailable covers transport failures and non-success statuses.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrCacheUnavailable wraps cache store failures. It never reaches end users.
	ErrCacheUnavailable = errors.New("cache store unavailable")

	// ErrEmptySeries is returned by the chart renderer for a series with no bars.
	ErrEmptySeries = errors.New("empty series")
)
