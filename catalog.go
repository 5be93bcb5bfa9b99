// Package catalog crawls a product catalog published through a sitemap,
// extracts structured product fields from semi-structured HTML pages,
// parses free-form ingredient text into typed records and stores the
// result in a normalized relational schema.
//
// This package contains domain types, interfaces and pure domain functions
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., sqlite/,
// goquery/, http/).
package catalog
