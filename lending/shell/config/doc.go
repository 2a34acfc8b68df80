// Package config loads the configuration of the reservation service and builds the infrastructure it
// describes: the database connection, the event store, the transition publisher and the
// OpenTelemetry providers.
//
// Values are resolved in three layers, later ones win: the defaults of Default, an optional YAML
// file, and environment variables with the prefix LENDING_ (e.g. LENDING_STORAGE_ENGINE,
// LENDING_POLICY_MIN_TRUST_SCORE, LENDING_SWEEPER_INTERVAL).
package config
