// Package pkguid provides StringID generators: UUIDv7 for sessions, events and
// correlation IDs, and base58 Snowflake IDs for datasets.
package pkguid
