// Package capescout crawls Property24 search results for Cape Town's
// Atlantic Seaboard and City Bowl neighborhoods, turning raw listing
// pages into structured property records, and serves the collected
// records over a small REST API with social features (views, likes,
// comments).
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/,
// sqlite/, http/).
package capescout
