// Package domain models normalized severe-weather warnings and forecasts.
//
// # Data Sources
//
// Forecast and current conditions come from a global forecast API returning
// parallel daily arrays indexed by day offset (dates, WMO weather codes,
// temperature extremes, precipitation probability). Warnings come from a
// regional provider in up to three shapes, tried in order:
//
//  1. A semi-structured regional warnings feed of title/description items.
//  2. A structured site-specific payload with explicit warning objects.
//  3. Synthesis from raw forecast numerics against fixed thresholds.
//
// # Severity Tiers
//
// Warnings use the three-tier scale Yellow < Amber < Red. Provider severity
// text is normalized by substring matching, highest tier first:
//
//	"extreme", "red"             → Red
//	"severe", "amber", "orange"  → Amber
//	anything else                → Yellow
//
// # Feed Title Grammar
//
// Regional feed titles follow the pattern
//
//	"<severity> warning of <events> affecting <region>"
//
// e.g. "Yellow warning of snow, ice affecting South West England". The event
// phrase is title-cased and suffixed with " Warning" to form the event label
// ("Snow, Ice Warning"). Titles not matching the grammar fall back to
// stripping severity and connector words; residues shorter than three
// characters become the generic "Weather Warning".
//
// # Validity Windows
//
// Feed descriptions carry validity in the form
//
//	"valid from HHMM Dow DD Mon to HHMM Dow DD Mon"
//
// with no year. Warnings are always near-term, so the year is inferred as the
// current one unless the month/day already passed, in which case it rolls to
// next year. Descriptions without that phrase are scanned for ISO dates
// (two → start/end, one → same-day window).
//
// # Region Codes
//
// The regional feed is selected by a short region code resolved from
// coordinates through an ordered list of bounding boxes (see RegionCode).
// Boxes overlap at region borders; first match wins. Coordinates inside the
// provider's coverage area but outside all boxes use the nationwide code.
//
// # Dedup Keys
//
// Logically identical warnings from different sources share an
// (event label, start timestamp) pair. Deduplicate keeps the first occurrence
// after ranking, so the highest-severity instance survives.
package domain
