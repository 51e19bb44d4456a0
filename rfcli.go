// Package rfcli provides a local, CLI-based reader for IETF RFC documents.
// It keeps a local catalog of RFC metadata, answers fuzzy queries against
// an in-memory index of that catalog, and caches fetched RFC bodies and
// their TLDR summaries so repeated lookups stay offline.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, etree/, bubbletea/).
package rfcli
